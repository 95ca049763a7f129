package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/okr-dashboard/db"
	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/auth"
	"github.com/frahmantamala/okr-dashboard/internal/core/events"
	"github.com/frahmantamala/okr-dashboard/internal/objective"
	objectivePostgres "github.com/frahmantamala/okr-dashboard/internal/objective/postgres"
	"github.com/frahmantamala/okr-dashboard/internal/organization"
	organizationPostgres "github.com/frahmantamala/okr-dashboard/internal/organization/postgres"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
	"github.com/frahmantamala/okr-dashboard/internal/seed"
	"github.com/frahmantamala/okr-dashboard/internal/transport/rest"
	"github.com/frahmantamala/okr-dashboard/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config       *internal.Config
	GormDB       *gorm.DB
	DB           *sql.DB
	Router       *chi.Mux
	Logger       *slog.Logger
	EventBus     *events.EventBus
	Checker      permission.Checker
	Dataset      *seed.Dataset
	Organization *organization.Service
	Auth         *auth.Service
	Objective    *objective.Service
}

func startHTTPServer() {
	cfg := mustLoadConfig(os.Stdout)

	deps, err := initializeDependencies(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register routes: %v\n", err)
		os.Exit(1)
	}

	addr := deps.Config.Server.Addr()
	deps.Logger.Info("Starting HTTP server", "address", addr, "base_url", deps.Config.Server.BaseURL, "database", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	return rest.RegisterAllRoutes(deps.Router, deps.DB, deps.Config.Database.Driver, rest.Handlers{
		Auth:          auth.NewHandler(deps.Auth, deps.Organization, deps.Logger),
		Authorization: auth.NewAuthorization(deps.Checker, deps.Logger),
		Objective:     objective.NewHandler(deps.Objective, deps.Logger),
		Organization:  organization.NewHandler(deps.Organization, deps.Logger),
	}, deps.Config.Server, deps.Logger)
}

// initializeDependencies opens the database, brings the schema and seed data
// up per configuration, and builds every service.
func initializeDependencies(ctx context.Context, cfg *internal.Config) (*Dependencies, error) {
	lg := logger.LoggerWrapper()

	gdb, sqlDB, err := initDB(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ds, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to load seed dataset: %w", err)
	}
	if cfg.Seed.OnStartup {
		if err := ds.Apply(ctx, gdb, false); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
		lg.Info("seed dataset applied", "users", len(ds.Users), "objectives", len(ds.Objectives))
	}

	bus := events.NewEventBus(lg)
	events.NewAuditLogger(lg).Register(bus)

	checker := permission.NewEngine()

	orgService := organization.NewService(organizationPostgres.NewOrganizationRepository(gdb), checker, bus, lg)
	if err := orgService.Load(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}

	if cfg.Security.DemoPassword == "" {
		if cfg.IsProduction() {
			_ = sqlDB.Close()
			return nil, errors.New("security.demo_password must be set in production")
		}
		lg.Warn("demo password is empty: any password is accepted for seeded users")
	}

	creds, err := auth.NewStaticCredentials(ds.Credentials(), cfg.Security.DemoPassword, cfg.Security.BCryptCost)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to build credentials: %w", err)
	}
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(creds, tokens, orgService, checker, lg)

	objectiveService := objective.NewService(objectivePostgres.NewObjectiveRepository(gdb), checker, orgService, bus, lg)

	return &Dependencies{
		Config:       cfg,
		GormDB:       gdb,
		DB:           sqlDB,
		Router:       chi.NewRouter(),
		Logger:       lg,
		EventBus:     bus,
		Checker:      checker,
		Dataset:      ds,
		Organization: orgService,
		Auth:         authService,
		Objective:    objectiveService,
	}, nil
}

func (d *Dependencies) close() {
	d.EventBus.Wait()
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

// initDB opens the configured database and migrates it when auto_migrate is
// set.
func initDB(ctx context.Context, cfg internal.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, sqlDB, cfg.Driver); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
	}
	return gdb, sqlDB, nil
}
