package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetLoggerToStructured switches the standard logger to JSON on stderr, also
// writing to a size-rotated file when filePath is set.
func SetLoggerToStructured(level logrus.Level, filePath string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(level)

	if filePath == "" {
		logrus.SetOutput(os.Stderr)
		return
	}

	file := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, file))
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(name string) logrus.Level {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.WithField("level", name).Warn("Unknown log level, using info")
		return logrus.InfoLevel
	}
	return lvl
}
