package notify

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/client"
)

func TestMutationResult(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		ok    bool
		toast Toast
	}{
		{
			name:  "success",
			ok:    true,
			toast: Toast{Level: LevelSuccess, Message: "Invitation sent"},
		},
		{
			name:  "server message",
			err:   fmt.Errorf("createInvitation: %w", &client.Error{Kind: client.KindHTTP, Status: 409, Message: "Already invited"}),
			toast: Toast{Level: LevelError, Message: "Already invited"},
		},
		{
			name:  "no message",
			err:   errors.New("connection reset"),
			toast: Toast{Level: LevelError, Message: "Failed to send invitation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec Recorder
			ok := MutationResult(&rec, tt.err, "Invitation sent", "Failed to send invitation")
			require.Equal(t, tt.ok, ok)
			require.Equal(t, []Toast{tt.toast}, rec.Toasts())
		})
	}
}

func TestLogNotifierWritesToastLines(t *testing.T) {
	var logs, out bytes.Buffer
	n := NewLogNotifier(zerolog.New(&logs), &out)

	n.Success("Saved")
	n.Warning("2 of 3 users updated")

	require.Equal(t, "✓ Saved\n! 2 of 3 users updated\n", out.String())
	require.Contains(t, logs.String(), `"toast":"warning"`)
	require.Contains(t, logs.String(), `"level":"warn"`)
}

func TestRecorderLast(t *testing.T) {
	var rec Recorder
	_, ok := rec.Last()
	require.False(t, ok)

	rec.Info("Refreshed")
	last, ok := rec.Last()
	require.True(t, ok)
	require.Equal(t, Toast{Level: LevelInfo, Message: "Refreshed"}, last)
}
