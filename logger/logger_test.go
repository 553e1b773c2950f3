package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogger(t *testing.T) {
	t.Run("writes prefixed messages", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("APP", "", &buf)
		require.NoError(t, err)

		l.Info("maze generated", zap.Int("rows", 4))
		l.Warning("slow rollout")
		l.Error("solve failed")

		out := buf.String()
		assert.Contains(t, out, "[APP]")
		assert.Contains(t, out, "INFO")
		assert.Contains(t, out, "maze generated")
		assert.Contains(t, out, `"rows": 4`)
		assert.Contains(t, out, "WARN")
		assert.Contains(t, out, "ERROR")
	})

	t.Run("colors the prefix", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("SOLVER", "\033[36m", &buf)
		require.NoError(t, err)

		l.Info("hello")
		assert.Contains(t, buf.String(), "\033[36m[SOLVER]\033[0m")
	})

	t.Run("debug hidden at info level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("APP", "", &buf)
		require.NoError(t, err)

		l.Debug("noise")
		assert.Empty(t, buf.String())
	})

	t.Run("debug shown at debug level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := NewWithOptions("APP", "", &buf, Options{Level: "debug"})
		require.NoError(t, err)

		l.Debug("details")
		assert.Contains(t, buf.String(), "details")
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := NewWithOptions("APP", "", &bytes.Buffer{}, Options{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("rejects nil writer", func(t *testing.T) {
		_, err := New("APP", "", nil)
		assert.Error(t, err)
	})

	t.Run("mirrors to a json file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pathfinder.log")
		l, err := NewWithOptions("APP", "", &bytes.Buffer{}, Options{File: path, MaxSizeMB: 1})
		require.NoError(t, err)

		l.Info("to disk")
		_ = l.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"to disk"`)
	})

	t.Run("nop discards", func(t *testing.T) {
		assert.NotPanics(t, func() { Nop().Error("ignored") })
	})
}
