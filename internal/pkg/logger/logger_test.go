package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	InitLogger(LogOption{Format: "json", LogDir: dir, Level: "debug"})
	Infof("[logger:test] hello: n=%d", 1)
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, defaultFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello: n=1")

	InitLogger(LogOption{Level: "error"})
}
