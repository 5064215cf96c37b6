package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hance08/teller/internal/backend"
	"github.com/hance08/teller/internal/config"
	"github.com/hance08/teller/internal/constants"
	"github.com/hance08/teller/internal/logging"
	"github.com/hance08/teller/internal/service"
	"github.com/hance08/teller/internal/store"
	"go.uber.org/zap"
)

type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Backend *backend.Client
	Service *service.Service

	migrationFS fs.FS
}

// NewApp validates config, builds the logger, backend client and core
// service, then returns the App entity and a cleanup func.
func NewApp(cfg *config.Config, migrationFS fs.FS) (*App, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := backend.NewClient(cfg.Backend, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}

	svc, err := service.NewService(cfg, client, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}

	return &App{
		Config:      cfg,
		Logger:      logger,
		Backend:     client,
		Service:     svc,
		migrationFS: migrationFS,
	}, closeLog, nil
}

// OpenStore opens the development backend database, creating and migrating
// it when needed.
func (a *App) OpenStore() (*store.Store, error) {
	dbPath, err := DatabasePath(a.Config)
	if err != nil {
		return nil, err
	}

	s, err := store.NewStore(dbPath, a.migrationFS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a.Logger.Debug("database opened", zap.String("path", dbPath))
	return s, nil
}

// DatabasePath resolves server.database_path, defaulting to the app data dir.
func DatabasePath(cfg *config.Config) (string, error) {
	if cfg.Server.DatabasePath != "" {
		return ExpandPath(cfg.Server.DatabasePath)
	}

	appDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, constants.DatabaseFile), nil
}

// DataDir is where the config file and the database live.
func DataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, "."+constants.AppName), nil
	}

	return filepath.Join(configDir, constants.AppName), nil
}

func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}
