package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/sidedish/internal/models"
)

// Connect opens the PostgreSQL database behind dsn, creating it if needed,
// and migrates the collections table.
func Connect(dsn string) (*gorm.DB, error) {
	if err := ensureDatabase(dsn); err != nil {
		return nil, fmt.Errorf("ensure database: %w", err)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

// Migrate creates or updates the tables the document store needs.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&models.Document{})
}

// ensureDatabase connects to the server's maintenance database and creates
// the target database when it does not exist yet.
func ensureDatabase(dsn string) error {
	masterDSN, dbName, ok := maintenanceDSN(dsn)
	if !ok {
		return nil
	}

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}

// maintenanceDSN rewrites a postgres URL to point at the "postgres"
// database. It reports false for key/value DSNs or URLs without a database.
func maintenanceDSN(dsn string) (string, string, bool) {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return "", "", false
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", "", false
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" || dbName == "postgres" {
		return "", "", false
	}

	parsed.Path = "/postgres"
	return parsed.String(), dbName, true
}
