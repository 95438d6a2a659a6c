// Command docfoundry is the terminal client for a DocFoundry backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/docfoundry/docfoundry-cli/internal/adapters/driven/auth"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driven/backend"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driven/config/file"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driven/storage/memory"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/cli"
	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/core/services"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	envConfigDir = "DOCFOUNDRY_CONFIG_DIR"
	envAPIBase   = "DOCFOUNDRY_API_BASE"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configDir := os.Getenv(envConfigDir)
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		configDir = dir
	}

	var configStore driven.ConfigStore
	fileConfig, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config unavailable, using defaults: %v\n", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileConfig
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}
	if base := os.Getenv(envAPIBase); base != "" {
		settings.Backend.BaseURL = base
	}

	logFile := settings.Log.File
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(configDir, logFile)
	}
	logger.Init(logger.Options{File: logFile})
	defer logger.Sync()

	transport := backend.NewTransport(
		settings.Backend.BaseURL,
		backend.WithTimeout(time.Duration(settings.Backend.TimeoutSeconds)*time.Second),
		backend.WithRateLimit(settings.Backend.RateLimit),
	)
	client := backend.NewClient(transport)

	var (
		tokens  driven.TokenStore
		runLog  driven.RunLog
		watcher driven.TokenWatcher
	)
	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		logger.Warn("Local database unavailable, run history kept in memory: %v", err)
		runLog = memory.NewRunLog()
	} else {
		defer store.Close()
		runLog = store.RunLog()
	}

	switch {
	case settings.Storage.TokenBackend == domain.TokenBackendSQLite && store != nil:
		tokens = store.TokenStore()
	default:
		fileTokens, err := file.NewTokenStore(configDir)
		if err != nil {
			logger.Warn("Token file unavailable, session will not persist: %v", err)
			tokens = memory.NewTokenStore()
		} else {
			tokens = fileTokens
			watcher = fileTokens
		}
	}

	credentials := services.NewCredentialService(ctx, client, tokens, auth.NewJWTDecoder())
	profiles := services.NewProfileResolver(client, credentials, memory.NewProfileCache(memory.DefaultProfileTTL))
	scope := services.NewScopeController(client, credentials, profiles)
	conversation := services.NewConversationController(client, credentials, scope, runLog, settings.Chat.Options())
	catalog := services.NewCatalogService(client, credentials, scope, profiles)
	runs := services.NewRunService(client, credentials, runLog, conversation.Options)

	if watcher != nil {
		go func() {
			err := watcher.Watch(ctx, func() {
				if err := credentials.Reload(ctx); err != nil {
					logger.Warn("Failed to reload token: %v", err)
				}
			})
			if err != nil {
				logger.Debug("Token watcher stopped: %v", err)
			}
		}()
	}

	cli.SetServices(cli.Services{
		Credentials:  credentials,
		Scope:        scope,
		Profiles:     profiles,
		Conversation: conversation,
		Catalog:      catalog,
		Runs:         runs,
		Settings:     settingsService,
	})
	cli.SetVersion(version)

	return cli.ExecuteContext(ctx)
}
