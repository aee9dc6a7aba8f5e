package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupZerolog(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := setupZerolog(&buf, tt.level)
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestSetupZerologWritesFile(t *testing.T) {
	var buf bytes.Buffer
	log := setupZerolog(&buf, "info")
	log.Info().Str("component", "database").Msg("connected")

	assert.Contains(t, buf.String(), "connected")
	assert.Contains(t, buf.String(), "component=database")
	assert.NotContains(t, buf.String(), "\x1b[")
}
