package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/examchan-dev/examchan/internal/config"
	"github.com/examchan-dev/examchan/internal/logger"
	"github.com/examchan-dev/examchan/internal/router"
	"github.com/examchan-dev/examchan/internal/setup"
)

const (
	startupTimeout = 10 * time.Second
	readTimeout    = 5 * time.Second
	writeTimeout   = 30 * time.Second
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	deps, err := setup.SetupDependencies(ctx, cfg)
	if err != nil {
		logger.Log.Error("failed to initialize dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Storage.Close(context.Background())

	server := &http.Server{
		Addr:         cfg.Public.ListenAddr,
		Handler:      router.New(deps),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logger.Log.Info("server started", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		logger.Log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
