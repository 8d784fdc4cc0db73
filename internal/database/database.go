package database

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"threadboard/internal/config"
)

type MethodsDB interface {
	CloseDB() error
	RunMigrations(migrationFilePath string) error
	HealthCheck() error
	GetDB() *DB
}

type DB struct {
	*sqlx.DB
	logger *slog.Logger
}

// DSN builds the lib/pq connection string.
func DSN(cfg config.DB) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DbHOST,
		cfg.DbPORT,
		cfg.DbUSER,
		cfg.DbPASSWORD,
		cfg.DbNAME,
		cfg.DbSSLMODE,
	)
}

func ConnectDB(cfg *config.Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "host", cfg.DB.DbHOST, "dbname", cfg.DB.DbNAME)

	db, err := sqlx.Connect("postgres", DSN(cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{DB: db, logger: logger}

	if err := dbStruct.RunMigrations(cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := dbStruct.HealthCheck(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database health check: %w", err)
	}

	logger.Info("connected to PostgreSQL")
	return dbStruct, nil
}

// Wrap adopts an existing connection, e.g. one backed by sqlmock.
func Wrap(db *sqlx.DB, logger *slog.Logger) *DB {
	return &DB{DB: db, logger: logger}
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// RunMigrations executes the SQL file at migrationFilePath. The file must be
// idempotent; it runs on every start.
func (db *DB) RunMigrations(migrationFilePath string) error {
	migrationSQL, err := os.ReadFile(migrationFilePath)
	if err != nil {
		return fmt.Errorf("read migration file %s: %w", migrationFilePath, err)
	}

	db.logger.Info("applying migrations", "file", migrationFilePath)

	if _, err := db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	db.logger.Info("migrations applied")
	return nil
}

func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.Ping()
}

func (db *DB) GetDB() *DB {
	return db
}
