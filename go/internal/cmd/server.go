package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/stakes/go/internal/gateway"
	"github.com/mcdev12/stakes/go/internal/httpx"
	"github.com/mcdev12/stakes/go/internal/web"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

func setupServer(services *Services, db Pinger, gw *gateway.Service) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler:           h2c.NewHandler(newRouter(services, db, gw), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newRouter builds the full handler. gw may be nil when NATS is not configured.
func newRouter(services *Services, db Pinger, gw *gateway.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpx.AccessLog)

	web.RegisterRoutes(r)
	setupHealthCheck(r, db)

	r.Route("/api/users", services.Users.Routes)
	r.Route("/api/games", services.Games.Routes)

	if gw != nil {
		gw.RegisterRoutes(r)
	}

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

func setupHealthCheck(r chi.Router, db Pinger) {
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, "Server is running!")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	})
}
