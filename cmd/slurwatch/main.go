package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ozfortress/slurwatch/internal/adapter"
	"github.com/ozfortress/slurwatch/internal/config"
	"github.com/ozfortress/slurwatch/internal/ingest"
	"github.com/ozfortress/slurwatch/internal/logger"
	"github.com/ozfortress/slurwatch/internal/providers/slurstf"
	"github.com/ozfortress/slurwatch/internal/registry"
	"github.com/ozfortress/slurwatch/internal/report"
	"github.com/ozfortress/slurwatch/internal/roster"
	"github.com/ozfortress/slurwatch/internal/store"
	"github.com/ozfortress/slurwatch/internal/webhook"
)

const userAgent = "slurwatch/1.0 (+https://github.com/ozfortress/slurwatch)"

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: slurwatch [flags] <command> [command flags]

Commands:
  run-daily       refresh roster, pull the window, export reports (default)
  roster-refresh  probe forward for new roster entries only
  pull            pull one window (-since/-before RFC3339, defaults from config)
  report          export CSV reports (-days N, 0 for all windows)
  probe           probe a single roster id (-id N) and print the result
  health          check database and upstream API reachability and exit

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	command := "run-daily"
	args := flag.Args()
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	cfg, err := config.Load(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "slurwatch",
		},
	}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting slurwatch", zap.String("command", command))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}

	if err := store.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()

	if command == "health" {
		var resp struct {
			Data []json.RawMessage `json:"data"`
		}
		apiURL := strings.TrimRight(cfg.Slurs.BaseURL, "/") + "/api/messages?limit=1&offset=0"
		if err := adapter.NewHTTPClient(cfg.Slurs.HTTPTimeout, userAgent).Get(ctx, apiURL, &resp); err != nil {
			logger.Fatal("Message API unreachable", zap.Error(err))
		}
		logger.Info("healthy",
			zap.String("database", "reachable, schema migrated"),
			zap.Int("api_sample_rows", len(resp.Data)))
		return
	}

	// Word lists
	lexicon, err := registry.LoadWordList(cfg.Ingest.LexiconPath, registry.LexiconKeys)
	if err != nil {
		logger.Fatal("Failed to load lexicon", zap.Error(err), zap.String("path", cfg.Ingest.LexiconPath))
	}
	allowlist, err := registry.LoadWordList(cfg.Ingest.AllowlistPath, registry.AllowlistKeys)
	if err != nil {
		logger.Fatal("Failed to load allowlist", zap.Error(err), zap.String("path", cfg.Ingest.AllowlistPath))
	}
	logger.Info("word lists loaded",
		zap.Int("lexicon_terms", lexicon.Len()), zap.Int("allowlist_terms", allowlist.Len()))

	// Components
	refresher := roster.NewRefresher(
		&roster.RefresherConfig{
			MaxProbes:      cfg.Roster.MaxProbes,
			NotFoundStreak: cfg.Roster.NotFoundStreak,
			ProbeDelay:     cfg.Roster.ProbeDelay,
		},
		roster.NewProber(adapter.NewHTTPClient(cfg.Roster.HTTPTimeout, userAgent), cfg.Roster.BaseURL),
		dataStore,
		clock,
	)

	slursClient := slurstf.NewClient(
		&slurstf.Config{
			BaseURL:       cfg.Slurs.BaseURL,
			Category:      cfg.Slurs.Category,
			BatchSize:     cfg.Slurs.BatchSize,
			PageLimit:     cfg.Slurs.PageLimit,
			PageDelay:     cfg.Slurs.PageDelay,
			RetrySchedule: cfg.Slurs.RetrySchedule,
		},
		adapter.NewHTTPClient(cfg.Slurs.HTTPTimeout, userAgent),
		clock,
		lexicon,
	)

	coordinator := ingest.NewCoordinator(&cfg.Ingest, dataStore, slursClient, lexicon, allowlist, clock)
	notifier := webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Secret, adapter.NewHTTPClient(30*time.Second, userAgent), clock)
	writer := report.NewWriter(dataStore, clock, cfg.Report.OutputDir)

	switch command {
	case "run-daily":
		if err := coordinator.RunDaily(ctx, refresher, notifier, writer); err != nil {
			logger.Fatal("Daily run failed", zap.Error(err))
		}

	case "roster-refresh":
		result, err := refresher.Refresh(ctx)
		if err != nil {
			logger.Fatal("Roster refresh failed", zap.Error(err))
		}
		logger.Info("roster refresh finished",
			zap.Int("checked", result.Checked),
			zap.Int("changed", result.Changed),
			zap.Int("errored", result.Errored))

	case "pull":
		fs := flag.NewFlagSet("pull", flag.ExitOnError)
		sinceFlag := fs.String("since", "", "Window start (RFC3339), default from watermark/lookback")
		beforeFlag := fs.String("before", "", "Window end (RFC3339), default now")
		_ = fs.Parse(args)

		after, before, err := coordinator.Window(ctx)
		if err != nil {
			logger.Fatal("Failed to resolve window", zap.Error(err))
		}
		if *sinceFlag != "" {
			after, err = time.Parse(time.RFC3339, *sinceFlag)
			if err != nil {
				logger.Fatal("Invalid -since value", zap.Error(err))
			}
		}
		if *beforeFlag != "" {
			before, err = time.Parse(time.RFC3339, *beforeFlag)
			if err != nil {
				logger.Fatal("Invalid -before value", zap.Error(err))
			}
		}

		result, err := coordinator.Pull(ctx, after, before)
		if err != nil {
			logger.Fatal("Pull failed", zap.Error(err))
		}
		logger.Info("pull finished",
			zap.Int("fetched", result.Fetched),
			zap.Int("inserted", result.Inserted),
			zap.Int("skipped_duplicate", result.SkippedDuplicate))

	case "probe":
		fs := flag.NewFlagSet("probe", flag.ExitOnError)
		idFlag := fs.Int64("id", 0, "Roster id to probe")
		_ = fs.Parse(args)

		if *idFlag <= 0 {
			logger.Fatal("probe requires a positive -id")
		}
		prober := roster.NewProber(adapter.NewHTTPClient(cfg.Roster.HTTPTimeout, userAgent), cfg.Roster.BaseURL)
		profile, err := prober.Probe(ctx, *idFlag)
		if err != nil {
			logger.Fatal("Probe failed", zap.Int64("roster_id", *idFlag), zap.Error(err))
		}
		logger.Info("probe result",
			zap.Int64("roster_id", profile.RosterID),
			zap.Int64p("steamid64", profile.SteamID64),
			zap.String("display_name", profile.DisplayName))

	case "report":
		fs := flag.NewFlagSet("report", flag.ExitOnError)
		daysFlag := fs.String("days", "", "Single window in days, empty for all windows")
		_ = fs.Parse(args)

		if *daysFlag != "" {
			days, err := strconv.Atoi(*daysFlag)
			if err != nil {
				logger.Fatal("Invalid -days value", zap.Error(err))
			}
			if err := writer.WriteCSV(ctx, days); err != nil {
				logger.Fatal("Report export failed", zap.Error(err))
			}
		} else if err := writer.WriteAll(ctx); err != nil {
			logger.Fatal("Report export failed", zap.Error(err))
		}

	default:
		usage()
		os.Exit(2)
	}

	logger.Info("slurwatch finished", zap.String("command", command))
}
