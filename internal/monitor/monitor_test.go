package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "status.json")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s := NewService(Dependencies{
		StatusPath: path,
		Collect: func() Status {
			return Status{InMatch: true, Match: 2, Round: 14, Alive: 3, PendingRounds: 5}
		},
		Now: func() time.Time { return now },
	})

	st, err := s.WriteStatus()
	require.NoError(t, err)
	assert.Equal(t, now, st.Time)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Status
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, st, got)
	assert.Equal(t, 14, got.Round)
}

func TestWriteStatusWithoutPath(t *testing.T) {
	s := NewService(Dependencies{})
	st, err := s.WriteStatus()
	require.NoError(t, err)
	assert.False(t, st.InMatch)
	assert.False(t, st.Time.IsZero())
}

func TestStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s := NewService(Dependencies{
		StatusPath: path,
		Interval:   5 * time.Millisecond,
		Collect:    func() Status { return Status{MatchesPlayed: 1} },
	})

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	// second start is a no-op
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}
