package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/linkviz/link/pkg/api"
	"github.com/linkviz/link/pkg/auth"
	"github.com/linkviz/link/pkg/catalog"
	"github.com/linkviz/link/pkg/config"
	"github.com/linkviz/link/pkg/export"
	"github.com/linkviz/link/pkg/logging"
	"github.com/linkviz/link/pkg/metrics"
	"github.com/linkviz/link/pkg/server"
	"github.com/linkviz/link/pkg/session"
	"github.com/linkviz/link/pkg/stream"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	logger.Info("starting linkd",
		logging.String("addr", cfg.Addr()),
		logging.String("log_level", cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store with TTL sweeper
	sessions := session.NewStore(session.Config{
		TTL:           cfg.Session.TTL,
		MaxDatasets:   cfg.Session.MaxDatasets,
		MaxUploadSize: cfg.Session.MaxUploadSize,
		SweepInterval: cfg.Session.SweepInterval,
	}, logger)
	go sessions.Run(ctx)

	// Catalog: Postgres when configured, memory otherwise
	var cat catalog.Store
	if cfg.Catalog.DatabaseURL != "" {
		pg, err := catalog.NewPGStore(ctx, cfg.Catalog.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to catalog database", logging.Error(err))
			os.Exit(1)
		}
		cat = pg
		logger.Info("catalog backed by postgres")
	} else {
		cat = catalog.NewMemoryStore()
	}
	defer cat.Close()

	// Event stream
	var bus *stream.Bus
	if cfg.Stream.Enabled {
		transport, err := stream.NewTransport(cfg.Stream.Transport, cfg.Stream.Bind)
		if err != nil {
			logger.Error("failed to bind event publisher", logging.Error(err))
			os.Exit(1)
		}
		bus = stream.NewBus(transport)
		defer bus.Close()
		logger.Info("event stream publishing",
			logging.String("transport", cfg.Stream.Transport),
			logging.String("bind", cfg.Stream.Bind))
	}

	// Snapshot archiving
	var archiver *export.Archiver
	if cfg.Archive.Enabled {
		archiver, err = export.NewArchiver(ctx, export.S3Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Prefix:          cfg.Archive.Prefix,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		}, logger)
		if err != nil {
			logger.Error("failed to configure archiver", logging.Error(err))
			os.Exit(1)
		}
		logger.Info("snapshot archiving enabled", logging.String("bucket", cfg.Archive.Bucket))
	}

	// Authentication
	var (
		jwtManager *auth.JWTManager
		userStore  *auth.UserStore
		apiKeys    *auth.APIKeyStore
	)
	if cfg.Auth.Enabled {
		jwtManager, err = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
		if err != nil {
			logger.Error("failed to configure JWT manager", logging.Error(err))
			os.Exit(1)
		}
		apiKeys, err = auth.NewAPIKeyStore(cfg.Auth.JWTSecret)
		if err != nil {
			logger.Error("failed to configure API key store", logging.Error(err))
			os.Exit(1)
		}
		userStore = auth.NewUserStore()
		if password := os.Getenv("LINK_ADMIN_PASSWORD"); password != "" {
			if _, err := userStore.CreateUser("admin", password, auth.RoleAdmin); err != nil {
				logger.Error("failed to create admin user", logging.Error(err))
				os.Exit(1)
			}
			logger.Info("admin user created")
		}
	}

	apiServer := api.NewServer(api.Options{
		Sessions:       sessions,
		Catalog:        cat,
		Bus:            bus,
		Archiver:       archiver,
		JWTManager:     jwtManager,
		UserStore:      userStore,
		APIKeys:        apiKeys,
		Metrics:        metrics.DefaultRegistry(),
		Logger:         logger,
		AuthRequired:   cfg.Auth.Enabled,
		MaxUploadBytes: cfg.Session.MaxUploadSize,
	})

	gs := server.NewGracefulServer(cfg.Addr(), apiServer.Handler(), logger, server.Options{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	gs.SetConfigReloadFunc(func() error {
		reloaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		logger.SetLevel(logging.ParseLevel(reloaded.LogLevel))
		return nil
	})

	// Stop the sweeper when shutdown begins
	go func() {
		<-gs.ShutdownChannel()
		cancel()
	}()

	if err := gs.Start(); err != nil {
		logger.Error("server failed", logging.Error(err))
		gs.Shutdown(10 * time.Second)
		os.Exit(1)
	}
}
