package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/tindaph/tinda-backend/internal/config"
	"github.com/tindaph/tinda-backend/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// BuildDSN returns the MySQL DSN for cfg.
func BuildDSN(cfg *config.Config) string {
	mc := gomysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}

	// Prefer Cloud SQL unix socket when INSTANCE_CONNECTION_NAME is provided.
	switch host := cfg.DBHost; {
	case cfg.InstanceConnectionName != "":
		mc.Net, mc.Addr = "unix", "/cloudsql/"+cfg.InstanceConnectionName
	case strings.HasPrefix(host, "tcp(") && strings.HasSuffix(host, ")"):
		mc.Net, mc.Addr = "tcp", strings.TrimSuffix(strings.TrimPrefix(host, "tcp("), ")")
	case strings.HasPrefix(host, "unix(") && strings.HasSuffix(host, ")"):
		mc.Net, mc.Addr = "unix", strings.TrimSuffix(strings.TrimPrefix(host, "unix("), ")")
	case strings.HasPrefix(host, "/"):
		mc.Net, mc.Addr = "unix", host
	default:
		mc.Net, mc.Addr = "tcp", host+":"+cfg.DBPort
	}
	return mc.FormatDSN()
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	}
}

// Connect opens the database selected by cfg.DBDriver.
func Connect(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case config.DriverMySQL, "":
		db, err = gorm.Open(mysql.Open(BuildDSN(cfg)), gormConfig())
	case config.DriverPostgres:
		db, err = openPostgres(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)

	return db, nil
}

// openPostgres goes through a pgx pool so the pool settings in the URL
// (pool_max_conns and friends) are honoured.
func openPostgres(ctx context.Context, url string) (*gorm.DB, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
}

// OpenSQLite opens a file (or ":memory:") with the pure-Go sqlite driver.
// SQLite allows one writer, so the pool is limited to a single connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=busy_timeout(5000)",
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}
