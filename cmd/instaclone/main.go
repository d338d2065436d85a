package main

import (
	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/config"
	"github.com/dev-react009/instaclone/internal/app"
	"github.com/dev-react009/instaclone/internal/logger"
)

func main() {
	conf, err := config.New(".env")
	if err != nil {
		logrus.Fatalf("[SETUP ERROR] error when reading config: %v", err)
	}

	log, err := logger.New(conf.Log)
	if err != nil {
		logrus.Fatalf("[SETUP ERROR] error when setting up logger: %v", err)
	}

	err = app.Run(*conf, log)
	if err != nil {
		log.Fatalf("[APPLICATION ERROR] error: %v", err)
	}

	log.Info("[SHUTDOWN] service shut down gracefully")
}
