package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLoggerToStructured_WritesFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	path := filepath.Join(t.TempDir(), "harpoon.log")
	SetLoggerToStructured(logrus.DebugLevel, path)
	logrus.WithField("scan_id", "abc").Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scan_id":"abc"`)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("chatty"))
}
