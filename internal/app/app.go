// Package app wires configuration, storage and the menu into the commands
// exposed by the forhonor binary.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"

	"github.com/palemoky/forhonor-db/internal/config"
	"github.com/palemoky/forhonor-db/internal/database"
	"github.com/palemoky/forhonor-db/internal/menu"
)

// App holds the long lived dependencies shared by the commands
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	gw      *database.Gateway
	repo    *database.Repository
	workdir string
}

// New creates an App rooted at workdir. An empty workdir uses the process
// working directory.
func New(cfg *config.Config, log *zap.Logger, workdir string) (*App, error) {
	if workdir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workdir = wd
	}

	gw := database.NewGateway(log)
	return &App{
		cfg:     cfg,
		log:     log,
		gw:      gw,
		repo:    database.NewRepository(gw),
		workdir: workdir,
	}, nil
}

// DatabasePath returns the configured SQLite file location
func (a *App) DatabasePath() string {
	return a.cfg.Database.Path(a.workdir)
}

// Gateway returns the storage gateway
func (a *App) Gateway() *database.Gateway {
	return a.gw
}

// Repository returns the query service
func (a *App) Repository() *database.Repository {
	return a.repo
}

// Open seeds the database on first run and opens the single connection used
// for the rest of the process. A failed open yields a nil connection; every
// later query then degrades with a logged error.
func (a *App) Open() *database.Conn {
	path := a.DatabasePath()

	seeded, err := database.EnsureInitialized(a.gw, path, nil)
	if err != nil {
		a.log.Error("Failed to initialize database", zap.String("path", path), zap.Error(err))
	} else if seeded {
		a.log.Info("Created and seeded database", zap.String("path", path))
	}

	conn, _ := a.gw.Open(path)
	return conn
}

// Close releases conn
func (a *App) Close(conn *database.Conn) {
	a.gw.Close(conn)
}

// RunMenu runs the interactive menu until the user exits or input ends
func (a *App) RunMenu(in io.Reader, out io.Writer) error {
	conn := a.Open()
	defer a.Close(conn)

	return menu.New(a.repo, conn, in, out).Run()
}

// Init seeds the database when its file is absent. With force the existing
// file is removed first. progress may be nil.
func (a *App) Init(force bool, progress *mpb.Progress) (bool, error) {
	path := a.DatabasePath()

	if force {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to remove existing database: %w", err)
		}
		a.log.Info("Removed existing database", zap.String("path", path))
	}

	return database.EnsureInitialized(a.gw, path, progress)
}
