package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/domain"
)

func (s *Server) requireBook(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.book == nil {
			s.respondWithError(w, http.StatusServiceUnavailable, "Recipe storage is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAddRecipe(w http.ResponseWriter, r *http.Request) {
	var req domain.ExtractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.respondWithError(w, http.StatusBadRequest, "Invalid or missing URL")
		return
	}

	recipe, err := s.book.Add(r.Context(), req.URL)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			s.respondWithError(w, http.StatusBadRequest, "Invalid URL: "+ve.Reason)
		case errors.Is(err, domain.ErrDuplicateRecipe):
			s.respondWithError(w, http.StatusConflict, "This recipe URL is already saved")
		default:
			s.logger.Error("failed to save recipe", zap.String("url", req.URL), zap.Error(err))
			s.respondWithError(w, http.StatusInternalServerError, "Could not save recipe")
		}
		return
	}
	s.respondWithJSON(w, http.StatusCreated, recipe)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.book.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list recipes", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not list recipes")
		return
	}
	s.respondWithJSON(w, http.StatusOK, recipes)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.book.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondRecipeError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.book.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondRecipeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondRecipeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.respondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	s.logger.Error("recipe lookup failed", zap.Error(err))
	s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve recipe")
}
