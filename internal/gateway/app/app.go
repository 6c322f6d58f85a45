package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/tenantgate/internal/gateway/http"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/service"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/tenant"
	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/aussiebroadwan/tenantgate/pkg/jwtx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application holds the gateway and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         *sqlite.Store
	keyManager *jwtx.KeyManager
	resolver   *tenant.Resolver

	authenticator *service.Authenticator

	server *http.Server
	router *httpapi.Router
}

// New builds an Application. A missing signing key, an unreachable
// identity store or an invalid tenants file is fatal.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tenantgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	km, err := InitKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = km

	if err := app.initTenants(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// OpenStore opens the identity store with the pragmas the gateway runs with
// and applies pending migrations.
func OpenStore(file string) (*sqlite.Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", file)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open identity store: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg.DatabaseFile)
	if err != nil {
		return err
	}
	app.db = db
	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) loadTargets() (*tenant.Targets, error) {
	if app.cfg.TenantsFile == "" {
		return tenant.NewTargets(tenant.TargetsConfig{})
	}
	return tenant.LoadTargets(app.cfg.TenantsFile)
}

func (app *Application) initTenants() error {
	targets, err := app.loadTargets()
	if err != nil {
		return fmt.Errorf("invalid tenant config: %w", err)
	}

	app.resolver = tenant.NewResolver(tenant.ResolverOptions{
		Default:        app.db.DB(),
		Targets:        targets,
		ConnectTimeout: app.cfg.ConnectTimeout,
	})
	app.logger.Info("tenant partitions loaded", slog.Int("tenants", targets.Len()), slog.Any("ids", targets.IDs()))
	return nil
}

func (app *Application) initServices() error {
	codec, err := service.NewTokenCodec(app.keyManager, service.CodecOptions{Clock: clock.New()})
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	app.authenticator = &service.Authenticator{
		Verifier: &service.CredentialVerifier{Users: app.db.Users()},
		Codec:    codec,
		Mappings: &service.MappingService{
			Mappings:   app.db.CompanyMappings(),
			SystemType: app.cfg.SystemType,
		},
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		BuildVersion,
		app.db,
		app.logger,
		httpx.DefaultCORS(app.cfg.CORSOrigin),
	)
	router.Authenticator = app.authenticator
	router.Authorizer = service.NewAuthorizer()
	router.Resolver = app.resolver
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Handler returns the gateway's HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves until SIGINT or SIGTERM. SIGHUP reloads the tenants file.
func (app *Application) Run() error {
	app.logger.Info("gateway starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	for {
		select {
		case err := <-serverErrors:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				_ = app.Close()
				return fmt.Errorf("server failed: %w", err)
			}
			return app.Close()

		case sig := <-signals:
			if sig == syscall.SIGHUP {
				if err := app.Reload(context.Background()); err != nil {
					app.logger.Error("tenant reload failed, keeping current partitions", "error", err)
				}
				continue
			}

			app.logger.Info("shutdown signal received", "signal", sig)
			if err := app.Shutdown(); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		}
	}
}

// Reload re-reads the tenants file and clears the connection cache. An
// invalid file leaves the current partitions in place.
func (app *Application) Reload(ctx context.Context) error {
	targets, err := app.loadTargets()
	if err != nil {
		return err
	}
	return app.resolver.Reload(slogx.WithContext(ctx, app.logger), targets)
}

// Shutdown drains in-flight requests then releases every resource.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.Close(); err != nil {
		app.logger.Error("error releasing resources", "error", err)
		return err
	}

	app.logger.Info("gateway stopped")
	return nil
}

// Close releases tenant pools and the identity store.
func (app *Application) Close() error {
	var err error
	if app.resolver != nil {
		err = multierr.Append(err, app.resolver.Close())
	}
	if app.db != nil {
		err = multierr.Append(err, app.db.Close())
	}
	return err
}
