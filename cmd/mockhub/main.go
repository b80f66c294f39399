package main

import (
	"codeberg.org/podhub/hub/internal/config"
	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/mockhub"
)

func main() {
	logger.Info("starting mockhub")

	cfg, err := config.LoadMockEnvironment()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	srv := mockhub.New(cfg)
	if err := srv.Run(); err != nil {
		logger.Fatal("mockhub failed", "error", err)
	}
}
