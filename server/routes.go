package server

import (
	"net/http"
	"time"

	"task-tracker/auth"
	"task-tracker/handlers"
	"task-tracker/httpserver"
	"task-tracker/notify"

	"github.com/jmoiron/sqlx"
)

// Dependencies are the collaborators the HTTP surface is built from
type Dependencies struct {
	DB       *sqlx.DB
	Hasher   *auth.PasswordHasher
	Tokens   *auth.TokenService
	Notifier notify.Notifier
	TokenTTL time.Duration
}

// NewServer builds the server with every route registered
func NewServer(port string, deps Dependencies) *httpserver.Server {
	server := httpserver.New(port, deps.DB, auth.NewGate(deps.Tokens))

	authHandler := handlers.NewAuthHandler(deps.Hasher, deps.Tokens, deps.TokenTTL)
	taskHandler := handlers.NewTaskHandler(deps.Notifier)

	server.Register(httpserver.Route{
		Name:       "HealthCheck",
		Method:     http.MethodGet,
		Path:       "/health",
		Capability: auth.CapabilityNone,
	}, handlers.Health)

	server.Register(httpserver.Route{
		Name:       "Login",
		Method:     http.MethodPost,
		Path:       "/token",
		Capability: auth.CapabilityNone,
	}, authHandler.Login)

	// Collections answer with and without the trailing slash.
	for _, path := range []string{"/users/", "/users"} {
		server.Register(httpserver.Route{
			Name:       "CreateUser",
			Method:     http.MethodPost,
			Path:       path,
			Capability: auth.CapabilityNone,
		}, authHandler.CreateUser)
	}

	for _, path := range []string{"/tasks/", "/tasks"} {
		server.Register(httpserver.Route{
			Name:       "CreateTask",
			Method:     http.MethodPost,
			Path:       path,
			Capability: auth.CapabilityAdmin,
		}, taskHandler.CreateTask)

		server.Register(httpserver.Route{
			Name:       "ListTasks",
			Method:     http.MethodGet,
			Path:       path,
			Capability: auth.CapabilityActiveUser,
		}, taskHandler.ListTasks)
	}

	server.Register(httpserver.Route{
		Name:       "GetTask",
		Method:     http.MethodGet,
		Path:       "/tasks/{id}",
		Capability: auth.CapabilityActiveUser,
	}, taskHandler.GetTask)

	server.Register(httpserver.Route{
		Name:       "UpdateTask",
		Method:     http.MethodPut,
		Path:       "/tasks/{id}",
		Capability: auth.CapabilityAdmin,
	}, taskHandler.UpdateTask)

	server.Register(httpserver.Route{
		Name:       "DeleteTask",
		Method:     http.MethodDelete,
		Path:       "/tasks/{id}",
		Capability: auth.CapabilityAdmin,
	}, taskHandler.DeleteTask)

	return server
}
