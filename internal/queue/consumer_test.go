package queue

import (
    "context"
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestCheckinConsumer_HandleMessageAppendsLine(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    c := &CheckinConsumer{LogDir: dir}

    for _, id := range []uint64{7, 8} {
        body, err := json.Marshal(AttendeeCheckedInEvent{
            RegistrationID: id,
            EventID:        3,
            UserID:         11,
            AttendeeName:   "Asha",
            AttendeeEmail:  "asha@example.com",
            CheckedInAt:    "2026-05-10T18:00:00Z",
        })
        require.NoError(t, err)
        require.NoError(t, c.HandleMessage(body))
    }

    raw, err := os.ReadFile(filepath.Join(dir, CheckinLogFile))
    require.NoError(t, err)
    lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
    require.Len(t, lines, 2)
    assert.Contains(t, lines[0], "registration_id=7")
    assert.Contains(t, lines[1], "registration_id=8")
    assert.Contains(t, lines[1], `name="Asha"`)
}

func TestCheckinConsumer_RejectsBadMessages(t *testing.T) {
    c := &CheckinConsumer{LogDir: t.TempDir()}

    assert.Error(t, c.HandleMessage([]byte("not json")))
    assert.Error(t, c.HandleMessage([]byte(`{"event_id": 1}`)))
}

func TestNopPublisher(t *testing.T) {
    var p Publisher = NopPublisher{}
    assert.NoError(t, p.Publish(context.Background(), AttendeeCheckedInQueue, AttendeeCheckedInEvent{}))
}
