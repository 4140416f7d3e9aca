package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spott-events/spott/internal/model"
)

func TestQRPNG(t *testing.T) {
	png, err := QRPNG("3f2b8c1e-0d6a-4c55-9b7e-1a2b3c4d5e6f", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	_, err = QRPNG("  ", 128)
	assert.Error(t, err)
}

func TestPDF(t *testing.T) {
	start := time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC)
	out, err := PDF(model.Ticket{
		Registration: model.Registration{QRCode: "abc-123", AttendeeName: "Zoë", AttendeeEmail: "zoe@example.com"},
		Event: model.Event{
			Title: "Café Sessions", Category: "music", City: "Pune", State: "MH",
			StartDate: start, EndDate: start.Add(2 * time.Hour),
			LocationType: model.LocationPhysical, ThemeColor: "#10b981",
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestHexRGB(t *testing.T) {
	r, g, b := hexRGB("#ff8000")
	assert.Equal(t, []int{255, 128, 0}, []int{r, g, b})
	r, g, b = hexRGB("nope")
	assert.Equal(t, []int{0x1e, 0x3a, 0x8a}, []int{r, g, b})
}
