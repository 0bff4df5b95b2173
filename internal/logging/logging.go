package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger = logrus.New()
	once   sync.Once
)

// Init configures the shared logger to write JSON lines to both stdout and a
// rotated file. Safe to call more than once; only the first call takes effect.
func Init(logFile string) {
	once.Do(func() {
		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}

		logger.SetOutput(io.MultiWriter(os.Stdout, rotated))
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	})
}

// L returns the shared logger.
func L() *logrus.Logger {
	return logger
}
