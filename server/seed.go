package server

import (
	"context"
	"fmt"

	"task-tracker/auth"
	"task-tracker/models"
	"task-tracker/repository"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// CreateUser registers an account outside the HTTP surface, e.g. to seed the
// first admin of a fresh database.
func CreateUser(ctx context.Context, users *repository.UserRepository, hasher *auth.PasswordHasher, email, password string, role models.Role) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("email and password are required")
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("unknown role %q", role)
	}

	hashed, err := hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := users.Create(ctx, email, hashed, role)
	if err != nil {
		return models.User{}, err
	}

	logger.Info("User created", zap.Int("user_id", user.ID), zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, nil
}
