package main

import (
	"log"
	"os"

	"github.com/avstrong/lakeside/internal/app"
	"github.com/avstrong/lakeside/internal/config"
	"github.com/avstrong/lakeside/internal/logger"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.New(logger.Config{Level: conf.LogLevel, Format: conf.LogFormat, Out: os.Stderr})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	var exitCode int

	if err := app.Run(conf, l); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
