package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// DSN builds the go-sqlite3 data source name for path. Transactions start
// with BEGIN IMMEDIATE so concurrent writers queue on the busy timeout
// instead of failing on a lock upgrade.
func DSN(path string) string {
	return path + "?_busy_timeout=5000&_txlock=immediate"
}

// InitializeDatabase opens the SQLite database at path and makes sure the schema exists
func InitializeDatabase(ctx context.Context, path string) (*sqlx.DB, error) {
	config := db.DatabaseConfig{
		DRIVER: "sqlite3",
		DB:     DSN(path),
	}

	dbConn := db.GetDBConnection(config)

	if err := EnsureSchema(ctx, dbConn); err != nil {
		logger.Error("Error while creating schema", zap.Error(err))
		dbConn.Close()
		return nil, err
	}

	logger.Info("Database initialized successfully", zap.String("path", path))
	return dbConn, nil
}

// Open opens a SQLite database without the shared connection helper and
// creates the schema. Tests use it with a file under t.TempDir().
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	dbConn, err := sqlx.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := EnsureSchema(ctx, dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}
