package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"time"

	"task-tracker/auth"
	"task-tracker/httpserver"
	"task-tracker/models"
	"task-tracker/repository"

	"go.uber.org/zap"
)

// AuthHandler serves registration and login
type AuthHandler struct {
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	tokenTTL time.Duration
}

// NewAuthHandler creates an AuthHandler. Tokens it issues live for tokenTTL.
func NewAuthHandler(hasher *auth.PasswordHasher, tokens *auth.TokenService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// CreateUser handles POST /users/ - registers an account
func (h *AuthHandler) CreateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid registration body", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Creating user", zap.String("email", req.Email), zap.String("role", string(req.Role)))

	users := repository.NewUserRepository(httpserver.GetConn(ctx))
	_, err := users.FindByEmail(ctx, req.Email)
	if err == nil {
		logRequest(ctx, "info", "Email already registered", zap.String("email", req.Email))
		httpserver.WriteError(ctx, w, models.ErrDuplicateEmail)
		return
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		httpserver.WriteError(ctx, w, err)
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	user, err := users.Create(ctx, req.Email, hashed, req.Role)
	if err != nil {
		logRequest(ctx, "error", "Failed to create user", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User created successfully", zap.Int("user_id", user.ID))
	httpserver.WriteJSON(w, http.StatusOK, user)
}

// Login handles POST /token - exchanges username (email) and password for a bearer token.
// The OAuth2 password form is the primary encoding; a JSON body is accepted too.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	req, err := parseLogin(r)
	if err != nil {
		logRequest(ctx, "error", "Invalid login request", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Login request", zap.String("email", req.Username))

	user, err := repository.NewUserRepository(httpserver.GetConn(ctx)).FindByEmail(ctx, req.Username)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		httpserver.WriteError(ctx, w, err)
		return
	}
	if err != nil || !h.hasher.Verify(req.Password, user.HashedPassword) {
		logRequest(ctx, "info", "Invalid credentials", zap.String("email", req.Username))
		w.Header().Set("WWW-Authenticate", "Bearer")
		httpserver.WriteJSON(w, http.StatusBadRequest, httpserver.ErrorResponse{Detail: "Incorrect username or password"})
		return
	}

	token, err := h.tokens.Issue(user.Email, h.tokenTTL)
	if err != nil {
		logRequest(ctx, "error", "Token signing failed", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Login successful", zap.Int("user_id", user.ID))
	httpserver.WriteJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func parseLogin(r *http.Request) (models.LoginRequest, error) {
	var req models.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := decodeJSON(r, &req); err != nil {
			return models.LoginRequest{}, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return models.LoginRequest{}, httpserver.BadRequest("Invalid form body")
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	if err := validateStruct(&req); err != nil {
		return models.LoginRequest{}, err
	}
	return req, nil
}
