package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/serenity-bot/serenity/internal/config"
	"github.com/serenity-bot/serenity/internal/database"
	"github.com/serenity-bot/serenity/internal/logging"
	"github.com/serenity-bot/serenity/internal/parser"
	"github.com/serenity-bot/serenity/internal/storage/gormstore"
	"github.com/serenity-bot/serenity/internal/storage/memory"
	"github.com/serenity-bot/serenity/pkg/core"
)

func main() {
	var (
		configDir = flag.String("config", ".", "directory containing serenity.cfg.json")
		dbPath    = flag.String("db", "", "sqlite recording (defaults to storage.sqlite.path)")
		file      = flag.String("file", "", "exported match file (.json or .json.gz); overrides -db")
		matchID   = flag.Uint("match", 0, "match id in the sqlite recording, 0 for the latest")
		seed      = flag.Uint64("seed", 0, "engine seed, 0 for the recorded seed")
		verbose   = flag.Bool("v", false, "log engine decisions")
	)
	flag.Parse()

	if err := run(os.Stdout, *configDir, *dbPath, *file, *matchID, *seed, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "serenity-replay: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, configDir, dbPath, file string, matchID uint, seed uint64, verbose bool) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	slogManager := logging.NewSlogManager()
	slogManager.Setup(os.Stderr, level, nil)
	logger := slogManager.Logger()

	if err := config.Load(configDir); err != nil {
		logger.Debug("No config file, using defaults", "error", err)
	}

	p := parser.NewParser(logger)
	match, rounds, err := load(p, dbPath, file, matchID)
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = match.Seed
	}
	sum, err := replay(w, match, rounds, seed, config.GetEngineConfig().HealthyHP, logger)
	if err != nil {
		return err
	}
	if !sum.Matches() {
		return fmt.Errorf("%d rounds diverged from the recording", len(sum.Diverged))
	}
	return nil
}

func load(p *parser.Parser, dbPath, file string, matchID uint) (core.Match, []core.RoundRecord, error) {
	if file != "" {
		export, err := memory.ReadExport(file)
		if err != nil {
			return core.Match{}, nil, err
		}
		rounds, err := export.RoundRecords(p)
		return export.Match(), rounds, err
	}

	if dbPath == "" {
		dbPath = viper.GetString("storage.sqlite.path")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return core.Match{}, nil, fmt.Errorf("recording not found: %w", err)
	}
	db, err := database.OpenSqlite(dbPath)
	if err != nil {
		return core.Match{}, nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if matchID == 0 {
		id, err := gormstore.LatestMatchID(db)
		if err != nil {
			return core.Match{}, nil, err
		}
		matchID = id
	}
	return gormstore.LoadMatch(db, p, matchID)
}
