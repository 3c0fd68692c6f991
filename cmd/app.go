package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk"
	bulkPostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk/postgres"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/credential"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/designation"
	designationPostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/designation/postgres"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/role"
	rolePostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/role/postgres"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
	userPostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/user/postgres"
	"github.com/idlidosa1206/Fusion-System-Administrator/pkg/logger"
)

// App holds the stores, event bus and services shared by the server and the CLI commands.
type App struct {
	Config *internal.Config
	Logger *slog.Logger
	SQL    *sqlx.DB
	Gorm   *gorm.DB
	Bus    *events.EventBus

	Users        *user.Service
	Designations *designation.Service
	Roles        *role.Service
	Importer     *bulk.Importer
	Exporter     *bulk.Exporter
}

func newApp(cfg *internal.Config) (*App, error) {
	lg := logger.LoggerWrapper()

	sqlDB, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), &gorm.Config{
		Logger: gormLogger.New(slog.NewLogLogger(lg.Handler(), slog.LevelWarn), gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	issuer := credential.NewIssuer(credential.NewGenerator(), cfg.Security.BCryptCost)
	users := user.NewService(userPostgres.NewUserRepository(gormDB), issuer, bus, cfg.Accounts.EmailDomain, lg)

	return &App{
		Config:       cfg,
		Logger:       lg,
		SQL:          sqlDB,
		Gorm:         gormDB,
		Bus:          bus,
		Users:        users,
		Designations: designation.NewService(designationPostgres.NewDesignationRepository(gormDB), bus, lg),
		Roles:        role.NewService(rolePostgres.NewRoleRepository(gormDB), bus, lg),
		Importer:     bulk.NewImporter(users, bus, cfg.Accounts.ImportMode, lg),
		Exporter:     bulk.NewExporter(bulkPostgres.NewExportRepository(sqlDB), lg),
	}, nil
}

// Close waits for audit handlers, then closes the pool.
func (a *App) Close(ctx context.Context) {
	if err := a.Bus.Drain(ctx); err != nil {
		a.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	if err := a.SQL.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := internal.WithTimeout(context.Background(), 0)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
