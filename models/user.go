package models

// Role is the permission level attached to a user account
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReadOnly Role = "read_only"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleReadOnly
}

// User represents an account that can authenticate against the service
// Password is stored hashed (bcrypt); never return it in JSON responses
type User struct {
	ID             int    `json:"id" db:"id"`
	Email          string `json:"email" db:"email"`
	HashedPassword string `json:"-" db:"hashed_password"`
	Role           Role   `json:"role" db:"role"`
	IsActive       bool   `json:"is_active" db:"is_active"`
}

// CreateUserRequest is the body of POST /users/
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"enum"`
}

// LoginRequest carries the OAuth2 password form fields of POST /token
// (username is the account email)
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by POST /token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "bearer"
}
