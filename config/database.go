package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/A111221027/0806/models"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrPoolNotReady is returned while the pool has not been connected yet
	ErrPoolNotReady = errors.New("database pool not ready")
	// ErrInvalidDatabaseURL is returned when DATABASE_URL cannot be turned into a DSN
	ErrInvalidDatabaseURL = errors.New("invalid database url")
)

const defaultMySQLPort = "3306"

// Pool is the process-wide database handle. It is constructed empty at
// startup and becomes ready once Connect or SetDB publishes a *gorm.DB.
type Pool struct {
	db atomic.Pointer[gorm.DB]
}

// NewPool creates a pool that rejects every request until it is connected
func NewPool() *Pool {
	return &Pool{}
}

// Connect opens the database described by cfg and publishes the handle
func (p *Pool) Connect(cfg *Config) error {
	dialector, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(GormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			_ = sqlDB.Close()
			return err
		}
		log.Println("Database migration completed successfully")
	}

	p.SetDB(db)
	log.Println("Database connection pool created")
	return nil
}

// SetDB publishes an already opened database handle
func (p *Pool) SetDB(db *gorm.DB) {
	p.db.Store(db)
}

// GetDB returns the database handle or ErrPoolNotReady
func (p *Pool) GetDB() (*gorm.DB, error) {
	db := p.db.Load()
	if db == nil {
		return nil, ErrPoolNotReady
	}
	return db, nil
}

// Ready reports whether the pool has a usable handle
func (p *Pool) Ready() bool {
	return p.db.Load() != nil
}

// Close releases every pooled connection and marks the pool not ready
func (p *Pool) Close() error {
	db := p.db.Swap(nil)
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the orders and order_items tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Dialector picks the gorm dialect for a database URL.
// mysql:// URLs request TLS without verifying the server certificate,
// postgres:// URLs get sslmode=require unless one is given.
func Dialector(databaseURL string) (gorm.Dialector, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDatabaseURL, err)
	}

	switch u.Scheme {
	case "mysql":
		dsn, err := MySQLDSN(u)
		if err != nil {
			return nil, err
		}
		return gormmysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(PostgresDSN(u)), nil
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidDatabaseURL, u.Scheme)
	}
}

// MySQLDSN converts a mysql:// URL into a go-sql-driver DSN
func MySQLDSN(u *url.URL) (string, error) {
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidDatabaseURL)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("%w: missing database name", ErrInvalidDatabaseURL)
	}

	port := u.Port()
	if port == "" {
		port = defaultMySQLPort
	}

	cfg := mysql.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(u.Hostname(), port)
	cfg.DBName = dbName
	cfg.TLSConfig = "skip-verify"
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	return cfg.FormatDSN(), nil
}

// PostgresDSN returns the URL with sslmode=require when no sslmode is set
func PostgresDSN(u *url.URL) string {
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "require")
	}
	dsn := *u
	dsn.RawQuery = q.Encode()
	return dsn.String()
}

// GormLogLevel maps LOG_LEVEL onto gorm's logger levels
func GormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}
