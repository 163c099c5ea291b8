package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task-tracker/models"

	"github.com/mattn/go-sqlite3"
)

// UserRepository is the credential store
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a UserRepository on db
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns the user registered with email, or models.ErrUserNotFound
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		"SELECT id, email, hashed_password, role, is_active FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// Create inserts an active user. The unique index on email is authoritative,
// so a concurrent registration of the same address also yields models.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string, role models.Role) (models.User, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, hashed_password, role, is_active) VALUES (?, ?, ?, ?)",
		email, passwordHash, role, true)
	if isUniqueViolation(err) {
		return models.User{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("read user id: %w", err)
	}

	return models.User{
		ID:             int(id),
		Email:          email,
		HashedPassword: passwordHash,
		Role:           role,
		IsActive:       true,
	}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
