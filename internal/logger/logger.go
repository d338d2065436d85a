package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/config"
)

// New builds the process logger from the LOG_* settings.
func New(conf config.Log) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		return nil, fmt.Errorf("logrus.ParseLevel: %v", err)
	}
	l.SetLevel(level)

	switch conf.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unsupported LOG_FORMAT %q", conf.Format)
	}

	return l, nil
}
