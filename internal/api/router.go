package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "bursar/internal/api/context"
	"bursar/internal/api/handlers"
	"bursar/internal/api/middleware"
	"bursar/internal/pkg/errors"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	ReceiptHandler *handlers.ReceiptHandler
	HealthHandler  *handlers.HealthHandler
	MetricsHandler *handlers.MetricsHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, r, http.StatusNotFound, errors.ErrCodeNotFound, "Page not found", nil)
	})

	authMid := deps.AuthMiddleware
	throttle := deps.RateLimiter

	// Receipt form and download
	router.GET("/", chain(deps.ReceiptHandler.Form, authMid.Handle))
	router.POST("/", chain(deps.ReceiptHandler.Generate, authMid.Handle))

	// Authentication
	router.GET("/login", wrap(deps.AuthHandler.LoginPage))
	router.POST("/login", chain(deps.AuthHandler.Login, throttle.Handle))
	router.GET("/signup", wrap(deps.AuthHandler.SignupPage))
	router.POST("/signup", chain(deps.AuthHandler.Signup, throttle.Handle))
	router.GET("/logout", chain(deps.AuthHandler.Logout, authMid.Handle))

	// Operations
	router.GET("/health", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	return router
}

// chain applies middlewares so the first one listed runs outermost.
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// wrap adapts an http.HandlerFunc to httprouter, carrying the route params on
// the request context.
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
