package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Entry
)

type Fields = logrus.Fields

func SetLevel(l logrus.Level) {
	logger.Logger.SetLevel(l)
}

// SetFormat switches between the default text output and JSON lines
func SetFormat(format string) {
	switch format {
	case "json":
		logger.Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func SetOutput(w io.Writer) {
	logger.Logger.SetOutput(w)
}

func init() {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
}

func WithError(e error) *logrus.Entry {
	return logger.WithError(e)
}

func Entry() *logrus.Entry {
	return logger
}

// Component returns an entry tagged with the emitting component
func Component(name string) *logrus.Entry {
	return logger.WithField("component", name)
}
