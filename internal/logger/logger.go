package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Init builds the process logger once. LOG_LEVEL picks the level, info by default.
func Init() {
	once.Do(func() {
		l := logrus.New()
		l.SetOutput(os.Stdout)
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
		level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
		if err != nil {
			level = logrus.InfoLevel
		}
		l.SetLevel(level)
		log = l
	})
}

// Get returns the singleton logger.
func Get() *logrus.Logger {
	Init()
	return log
}

// With returns an entry carrying the given component name.
func With(component string) *logrus.Entry {
	return Get().WithField("component", component)
}

func Info(msg string) {
	Get().Info(msg)
}

func Error(err error, msg string) {
	Get().WithError(err).Error(msg)
}

func Fatal(err error, msg string) {
	Get().WithError(err).Fatal(msg)
}
