package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("emits json with the service field", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "taulu", "info")

		logger.Info().Str("k", "v").Msg("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "taulu", entry["service"])
		assert.Equal(t, "hello", entry["message"])
		assert.Equal(t, "v", entry["k"])
	})

	t.Run("respects the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "taulu", "warn")

		logger.Info().Msg("dropped")
		assert.Zero(t, buf.Len())

		logger.Warn().Msg("kept")
		assert.NotZero(t, buf.Len())
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "taulu", "loud")

		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("no trace fields without a span", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "taulu", "info")

		logger.Info().Msg("plain")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.NotContains(t, entry, "trace_id")
	})
}
