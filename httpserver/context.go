package httpserver

import (
	"context"

	"task-tracker/models"

	"github.com/jmoiron/sqlx"
)

type contextKey int

const (
	routeKey contextKey = iota
	requestIDKey
	connKey
	userKey
)

func withRoute(ctx context.Context, route Route, requestID string) context.Context {
	ctx = context.WithValue(ctx, routeKey, route)
	return context.WithValue(ctx, requestIDKey, requestID)
}

func withConn(ctx context.Context, conn *sqlx.Conn) context.Context {
	return context.WithValue(ctx, connKey, conn)
}

func withUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetRouteName returns the name of the route serving the request
func GetRouteName(ctx context.Context) string {
	route, _ := ctx.Value(routeKey).(Route)
	return route.Name
}

// GetRouteMethod returns the HTTP method the route was registered with
func GetRouteMethod(ctx context.Context) string {
	route, _ := ctx.Value(routeKey).(Route)
	return route.Method
}

// GetRoutePath returns the path template the route was registered with
func GetRoutePath(ctx context.Context) string {
	route, _ := ctx.Value(routeKey).(Route)
	return route.Path
}

// GetRequestID returns the id assigned to the request
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetConn returns the store handle acquired for this request. It is released
// when the handler returns and must not be retained.
func GetConn(ctx context.Context) *sqlx.Conn {
	conn, _ := ctx.Value(connKey).(*sqlx.Conn)
	return conn
}

// GetUser returns the caller authorized by the access gate. ok is false on
// routes that do not require authentication.
func GetUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
