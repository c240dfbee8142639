package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mitrahealth/fhirterm/internal/audit"
	"github.com/mitrahealth/fhirterm/internal/bootstrap"
	"github.com/mitrahealth/fhirterm/internal/config"
	"github.com/mitrahealth/fhirterm/internal/database"
	"github.com/mitrahealth/fhirterm/internal/icd"
	"github.com/mitrahealth/fhirterm/internal/ingest"
	"github.com/mitrahealth/fhirterm/internal/server"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

const databaseReadyAttempts = 30

var (
	configFile string
	debugMode  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fhirterm-server",
		Short:         "FHIR terminology HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if cfg.Icd.ClientID == "" || cfg.Icd.ClientSecret == "" {
		return fmt.Errorf("ICD_CLIENT_ID and ICD_CLIENT_SECRET environment variables are required")
	}

	db, err := database.Connect(ctx, cfg.Database, databaseReadyAttempts)
	if err != nil {
		return fmt.Errorf("database.Connect() > %w", err)
	}
	app.AddShutdownHook("database", func(ctx context.Context) error {
		return db.Close()
	})

	tokens := icd.NewTokenSource(cfg.Icd.TokenURL, cfg.Icd.ClientID, cfg.Icd.ClientSecret)
	app.AddShutdownHook("icd token source", func(ctx context.Context) error {
		return tokens.Close()
	})

	icdClient := icd.NewClient(icd.Config{
		BaseURL:             cfg.Icd.BaseURL,
		APIVersion:          cfg.Icd.APIVersion,
		SearchRelease:       cfg.Icd.SearchRelease,
		EntityCacheCapacity: cfg.Cache.EntityCapacity,
		SearchCacheCapacity: cfg.Cache.SearchCapacity,
		CacheTTL:            time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	}, tokens)
	app.AddShutdownHook("icd client", func(ctx context.Context) error {
		return icdClient.Close()
	})

	codes := terminology.NewDBCodeRepository(db)
	mappings := terminology.NewDBConceptMapRepository(db)

	var recorder audit.Recorder
	if cfg.Audit.Enabled {
		recorder = audit.NewDBRecorder(db)
	}

	fhirHandler := server.NewFHIRHandler(
		terminology.NewTranslator(mappings, icdClient, cfg.Icd.SystemURI),
		terminology.NewExpander(codes, icdClient, cfg.Icd.SystemURI),
		terminology.NewLookup(codes, icdClient),
		recorder,
		cfg.Namaste.SystemURI,
	)
	adminHandler := server.NewAdminHandler(
		ingest.NewImporter(codes, mappings, cfg.Namaste.Version),
		codes,
		mappings,
		recorder,
		cfg.Icd.BaseURL,
		cfg.Icd.APIVersion,
	)

	mux := server.NewMux(fhirHandler, adminHandler)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.CORSMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
