package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.WarnLevel},
		{"chatty", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("debug"))
	assert.True(t, ValidLevel("Error"))
	assert.True(t, ValidLevel(""))
	assert.False(t, ValidLevel("chatty"))
}

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup("info", FormatJSON, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("method", "MuslimWorldLeague").Msg("computed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "computed", entry["message"])
	assert.Equal(t, "MuslimWorldLeague", entry["method"])
	assert.Contains(t, entry, "time")
}

func TestSetup_Text(t *testing.T) {
	var buf bytes.Buffer
	log := Setup("debug", FormatText, &buf)

	log.Debug().Int("days", 30).Msg("month computed")

	out := buf.String()
	assert.Contains(t, out, "DBG")
	assert.Contains(t, out, "month computed")
	assert.Contains(t, out, "days=30")
}

func TestSetup_Off(t *testing.T) {
	var buf bytes.Buffer
	log := Setup("off", FormatJSON, &buf)

	log.Error().Msg("nothing")
	assert.Empty(t, buf.String())
}
