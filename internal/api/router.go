package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(middleware.Timeout(25 * time.Second))

	r.Get("/", s.handleRoot)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/parse-recipe", s.handleParseRecipeQuery)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealthCheck)
		r.Post("/parse-recipe", s.handleParseRecipeBody)
		r.Post("/fetch_recipe_meta", s.handleFetchRecipeMeta)
		r.Get("/status", s.handleStatusRequest)

		r.Route("/recipes", func(r chi.Router) {
			r.Use(s.requireBook)
			r.Post("/", s.handleAddRecipe)
			r.Get("/", s.handleListRecipes)
			r.Get("/{id}", s.handleGetRecipe)
			r.Delete("/{id}", s.handleDeleteRecipe)
		})
	})

	return r
}
