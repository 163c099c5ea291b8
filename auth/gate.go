package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task-tracker/models"
)

var (
	// ErrUnauthenticated covers every failure to establish who the caller is.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrMissingCredentials is the ErrUnauthenticated case where no bearer token was sent.
	ErrMissingCredentials = fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
	// ErrInactiveAccount is returned when the caller's account is disabled.
	ErrInactiveAccount = errors.New("inactive account")
	// ErrInsufficientRole is returned when the caller's role does not grant the capability.
	ErrInsufficientRole = errors.New("insufficient role")
)

// Capability is the permission an operation requires
type Capability string

const (
	// CapabilityNone marks operations open to anonymous callers (register, login).
	CapabilityNone Capability = "none"
	// CapabilityActiveUser is satisfied by any authenticated active user.
	CapabilityActiveUser Capability = "active_user"
	// CapabilityAdmin is satisfied only by admins.
	CapabilityAdmin Capability = "admin"
)

// Allows reports whether role satisfies the capability.
func (c Capability) Allows(role models.Role) bool {
	switch c {
	case CapabilityNone:
		return true
	case CapabilityActiveUser:
		return role.Valid()
	case CapabilityAdmin:
		return role == models.RoleAdmin
	}
	return false
}

// TokenDecoder resolves a bearer token to the subject it was issued for.
type TokenDecoder interface {
	Decode(token string) (string, error)
}

// UserFinder looks up accounts by email. It returns models.ErrUserNotFound
// when no account matches.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// Gate decides whether a request may proceed. It only reads; it never mutates a store.
type Gate struct {
	tokens TokenDecoder
}

// NewGate creates a Gate that trusts tokens decoded by tokens.
func NewGate(tokens TokenDecoder) *Gate {
	return &Gate{tokens: tokens}
}

// Authorize runs the access checks for one request in order: bearer token
// present, token valid, user exists, user active, role sufficient. users must
// be bound to the request's own store handle.
func (g *Gate) Authorize(ctx context.Context, users UserFinder, authorization string, required Capability) (models.User, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return models.User{}, ErrMissingCredentials
	}

	email, err := g.tokens.Decode(token)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		return models.User{}, fmt.Errorf("%w: unknown subject", ErrUnauthenticated)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("look up token subject: %w", err)
	}

	if !user.IsActive {
		return models.User{}, ErrInactiveAccount
	}

	if !required.Allows(user.Role) {
		return models.User{}, ErrInsufficientRole
	}

	return user, nil
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(authorization string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
