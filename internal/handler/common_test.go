package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestQueryLimit(t *testing.T) {
	e := echo.New()
	cases := map[string]int{
		"":            0,
		"?limit=":     0,
		"?limit=x":    0,
		"?limit=-3":   0,
		"?limit=0":    0,
		"?limit=7":    7,
		"?limit=100":  MaxQueryLimit,
		"?limit=5000": MaxQueryLimit,
	}
	for q, want := range cases {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/explore/featured"+q, nil), httptest.NewRecorder())
		assert.Equal(t, want, queryLimit(c), "query %q", q)
	}
}
