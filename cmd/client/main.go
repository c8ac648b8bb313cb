package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/client"
	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(info)

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("sync-engine").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("sync-engine", cfg.App.LogFile)

	ctx := context.Background()
	app, err := client.NewApp(ctx, cfg, info, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init sync engine error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("sync engine run error")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
