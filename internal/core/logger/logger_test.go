package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRotate_WritesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := NewWithRotate("info", true, p, 1, 1, 1, false)

	l.Info("hello rotate")
	l.Debug("filtered out")
	cleanup()

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello rotate")
	assert.NotContains(t, string(b), "filtered out")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := New("nonsense", false)
	defer cleanup()
	assert.True(t, l.Core().Enabled(0))  // info
	assert.False(t, l.Core().Enabled(-1)) // debug
}
