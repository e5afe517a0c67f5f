// Package server initializes and runs the bloglist server.
// It opens storage, applies migrations, wires the services and serves the
// HTTP API until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bloglist/internal/dbx"
	"github.com/dmitrijs2005/bloglist/internal/logging"
	"github.com/dmitrijs2005/bloglist/internal/server/auth"
	"github.com/dmitrijs2005/bloglist/internal/server/config"
	"github.com/dmitrijs2005/bloglist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bloglist/internal/server/rest"
	"github.com/dmitrijs2005/bloglist/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	blogService *services.BlogService
	guard       *auth.Guard
}

// Storage is an opened store: the pool handle (nil for the in-memory
// store), its repository manager and a transaction runner.
type Storage struct {
	DB      *sql.DB
	Manager repomanager.RepositoryManager
	InTx    dbx.TxRunner
}

// OpenStorage opens the store named by cfg.DatabaseDSN and applies
// migrations. repomanager.MemoryDSN selects the in-memory store.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg.DatabaseDSN == repomanager.MemoryDSN {
		m := repomanager.NewInMemoryRepositoryManager()
		return &Storage{Manager: m, InTx: m.RunInTx}, nil
	}

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return &Storage{DB: db, Manager: m, InTx: dbx.NewTxRunner(db, nil)}, nil
}

// NewUserService builds the account service over st with cfg's secret
// and bcrypt cost.
func NewUserService(st *Storage, cfg *config.Config) (*services.UserService, *auth.TokenService) {
	tokens := auth.NewTokenService([]byte(cfg.SecretKey))
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	return services.NewUserService(poolHandle(st.DB), st.Manager, hasher, tokens), tokens
}

// poolHandle avoids handing repositories a typed-nil *sql.DB.
func poolHandle(db *sql.DB) dbx.DBTX {
	if db == nil {
		return nil
	}
	return db
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	st, err := OpenStorage(ctx, c)
	if err != nil {
		return nil, err
	}
	if st.DB == nil {
		logger.Warn(ctx, "Using in-memory storage, data is lost on exit")
	}

	us, tokens := NewUserService(st, c)
	bs := services.NewBlogService(poolHandle(st.DB), st.InTx, st.Manager)
	guard := auth.NewGuard(tokens, us)

	return &App{
		config:      c,
		logger:      logger,
		db:          st.DB,
		userService: us,
		blogService: bs,
		guard:       guard,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal or ctx cancellation, then shuts
// the HTTP server down and closes the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	s := rest.NewServer(rest.Options{
		Address:         app.config.EndpointAddrHTTP,
		RequestTimeout:  app.config.RequestTimeout,
		ShutdownTimeout: app.config.ShutdownTimeout,
		AllowOrigins:    app.config.AllowOrigins,
	}, app.logger, app.userService, app.blogService, app.guard)

	runErr := s.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "HTTP server error", "error", runErr)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "error closing db", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
