package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

// RegisterRoutes mounts the landing page, the API documentation page and /static/*
func RegisterRoutes(r chi.Router) {
	r.Get("/", servePage("templates/landing.html"))
	r.Get("/api/json", servePage("templates/api.html"))

	sub, err := fs.Sub(static, "static")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

func servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := templates.ReadFile(name)
		if err != nil {
			log.Error().Err(err).Str("page", name).Msg("failed to read page")
			http.Error(w, "page not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}
