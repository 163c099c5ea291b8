package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"task-tracker/auth"
	"task-tracker/repository"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// HandlerFunc handles a request after the route's middleware has run.
// ctx carries the route, request id, store handle and (for gated routes) the caller.
type HandlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request)

// Route describes an endpoint and the capability needed to call it
type Route struct {
	Name       string
	Method     string
	Path       string
	Capability auth.Capability
}

// Server routes requests with gorilla/mux. Every registered handler runs
// with its own store connection and behind the access gate.
type Server struct {
	router *mux.Router
	db     *sqlx.DB
	gate   *auth.Gate
	srv    *http.Server
}

// New creates a Server listening on port
func New(port string, db *sqlx.DB, gate *auth.Gate) *Server {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Detail: "Not Found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Detail: "Method Not Allowed"})
	})

	return &Server{
		router: router,
		db:     db,
		gate:   gate,
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Register adds route to the server
func (s *Server) Register(route Route, handler HandlerFunc) {
	s.router.Handle(route.Path, s.wrap(route, handler)).Methods(route.Method)
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// wrap acquires the request's store connection, runs the access gate and
// releases the connection once next returns, whatever the outcome.
func (s *Server) wrap(route Route, next HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx := withRoute(r.Context(), route, requestID)
		defer func() {
			logger.Info(fmt.Sprintf("%s - %s - %s", route.Name, r.Method, r.URL.Path),
				zap.String("request_id", requestID),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		}()

		conn, err := s.db.Connx(ctx)
		if err != nil {
			WriteError(ctx, rec, fmt.Errorf("acquire connection: %w", err))
			return
		}
		defer conn.Close()
		ctx = withConn(ctx, conn)

		if route.Capability != "" && route.Capability != auth.CapabilityNone {
			user, err := s.gate.Authorize(ctx, repository.NewUserRepository(conn), r.Header.Get("Authorization"), route.Capability)
			if err != nil {
				logger.Info("Request rejected",
					zap.String("request_id", requestID),
					zap.String("route", route.Name),
					zap.String("reason", err.Error()),
				)
				WriteError(ctx, rec, err)
				return
			}
			ctx = withUser(ctx, user)
		}

		next(ctx, rec, r.WithContext(ctx))
	})
}

// statusRecorder remembers the status written for the access log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
