package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is safe to run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		role TEXT NOT NULL DEFAULT 'read_only' CHECK (role IN ('admin', 'read_only'))
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		reporter TEXT NOT NULL,
		assignee TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'todo' CHECK (status IN ('todo', 'in progress', 'done')),
		priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('highest', 'high', 'medium', 'low', 'lowest'))
	)`,
	`CREATE INDEX IF NOT EXISTS ix_tasks_title ON tasks (title)`,
}

// EnsureSchema creates the users and tasks tables if they are missing
func EnsureSchema(ctx context.Context, dbConn *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := dbConn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
