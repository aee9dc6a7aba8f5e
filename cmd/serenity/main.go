package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/serenity-bot/serenity/internal/client"
	"github.com/serenity-bot/serenity/internal/config"
	"github.com/serenity-bot/serenity/internal/dispatcher"
	"github.com/serenity-bot/serenity/internal/handlers"
	"github.com/serenity-bot/serenity/internal/influx"
	"github.com/serenity-bot/serenity/internal/logging"
	"github.com/serenity-bot/serenity/internal/monitor"
	"github.com/serenity-bot/serenity/internal/parser"
	"github.com/serenity-bot/serenity/internal/storage"
	"github.com/serenity-bot/serenity/internal/storage/gormstore"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "serenity"
)

var (
	SlogManager      *logging.SlogManager
	Logger           *slog.Logger
	SessionStartTime = time.Now()
)

func main() {
	configDir := flag.String("config", ".", "directory containing serenity.cfg.json")
	flag.Parse()

	if err := run(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "serenity: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config", "file", viper.ConfigFileUsed())
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}
	logFile, err := os.OpenFile(
		logging.LogFilePath(logsDir, AppName, SessionStartTime),
		os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	matchCtx := logging.NewMatchContext()
	SlogManager.Setup(logFile, viper.GetString("logLevel"), matchCtx.Attrs)
	Logger = SlogManager.Logger()
	zlog := setupZerolog(logFile, viper.GetString("logLevel"))

	Logger.Info("Starting up",
		"version", CurrentVersion,
		"buildDate", BuildDate,
		"logFile", logFile.Name())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage
	storageCfg := config.GetStorageConfig()
	backend, dbManager, err := storage.NewBackend(storageCfg, storage.Dependencies{
		DB:       config.GetDBConfig(),
		DBLogger: zlog.With().Str("component", "database").Logger(),
		Logger:   Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	Logger.Info("Storage backend initialized", "type", storageCfg.Type)
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Error("Failed to close storage backend", "error", err)
		}
		if dbManager != nil {
			_ = dbManager.Close()
		}
	}()

	// telemetry
	var telemetry handlers.PointWriter
	influxManager := influx.NewManager(zlog.With().Str("component", "influx").Logger(), config.GetInfluxConfig())
	switch err := influxManager.Connect(ctx); {
	case errors.Is(err, influx.ErrDisabled):
		Logger.Debug("Telemetry disabled")
	case err != nil:
		Logger.Warn("Telemetry unavailable", "error", err)
	default:
		telemetry = influxManager
		defer influxManager.Close()
	}

	// dispatcher and handlers
	eventDispatcher, err := dispatcher.New(logging.NewDispatcherLogger(zlog.With().Str("component", "dispatcher").Logger()))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	engineCfg := config.GetEngineConfig()
	clientCfg := config.GetClientConfig()
	p := parser.NewParser(Logger)

	handlerService := handlers.NewService(handlers.Dependencies{
		Parser:       p,
		Logger:       Logger,
		MatchContext: matchCtx,
		Telemetry:    telemetry,
		TeamName:     clientCfg.TeamName,
		Seed:         engineCfg.Seed,
		HealthyHP:    engineCfg.HealthyHP,
	})
	handlerService.SetBackend(backend)
	handlerService.RegisterHandlers(eventDispatcher)
	// drain queued recordings before the backend closes
	defer eventDispatcher.Close()

	gameClient := client.New(clientCfg, p, eventDispatcher, Logger)

	// status monitor
	monitorCfg := config.GetMonitorConfig()
	if monitorCfg.Enabled {
		monitorService := monitor.NewService(monitor.Dependencies{
			Logger:     Logger,
			StatusPath: monitorCfg.StatusFile,
			Interval:   monitorCfg.Interval,
			Collect:    statusCollector(handlerService, gameClient, backend),
		})
		if err := monitorService.Start(); err != nil {
			Logger.Warn("Failed to start status monitor", "error", err)
		}
		defer monitorService.Stop()
	}

	Logger.Info("Connecting to game server",
		"url", clientCfg.ServerURL,
		"team", clientCfg.TeamName,
		"keepPlaying", clientCfg.KeepPlaying)

	err = gameClient.Run(ctx)
	Logger.Info("Shutting down", "matches", gameClient.Matches())
	return err
}

func statusCollector(svc *handlers.Service, c *client.Client, backend storage.Backend) func() monitor.Status {
	return func() monitor.Status {
		p := svc.Progress()
		st := monitor.Status{
			InMatch:       p.InMatch,
			Match:         p.Match,
			Round:         p.Round,
			Rounds:        p.Rounds,
			Alive:         p.Alive,
			KnownEnemies:  p.KnownEnemies,
			Asteroids:     p.Asteroids,
			MatchesPlayed: c.Matches(),
		}
		if g, ok := backend.(*gormstore.Backend); ok {
			st.PendingRounds = g.Pending()
		}
		return st
	}
}
