package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/domain"
)

const noIngredientsMessage = "Could not automatically extract ingredients from this URL."

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Recipe Parser Backend is running!"))
}

func (s *Server) handleParseRecipeQuery(w http.ResponseWriter, r *http.Request) {
	s.parseRecipe(w, r, r.URL.Query().Get("url"))
}

func (s *Server) handleParseRecipeBody(w http.ResponseWriter, r *http.Request) {
	var req domain.ExtractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	s.parseRecipe(w, r, req.URL)
}

func (s *Server) parseRecipe(w http.ResponseWriter, r *http.Request, rawURL string) {
	if strings.TrimSpace(rawURL) == "" {
		s.respondWithError(w, http.StatusBadRequest, "URL query parameter is required")
		return
	}

	result, err := s.extractor.Extract(r.Context(), rawURL)
	if err != nil {
		var (
			ve *domain.ValidationError
			fe *domain.FetchError
			he *domain.HTTPError
		)
		switch {
		case errors.As(err, &ve):
			s.respondWithError(w, http.StatusBadRequest, "Invalid URL: "+ve.Reason)
		case errors.As(err, &fe), errors.As(err, &he):
			s.logger.Warn("failed to fetch recipe page", zap.String("url", rawURL), zap.Error(err))
			s.respondWithJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Failed to fetch URL (" + err.Error() + ")",
				"details": err.Error(),
			})
		default:
			s.logger.Error("failed to parse recipe", zap.String("url", rawURL), zap.Error(err))
			s.respondWithJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Failed to parse recipe",
				"details": err.Error(),
			})
		}
		return
	}

	if len(result.Ingredients) == 0 {
		s.respondWithJSON(w, http.StatusNotFound, map[string]any{
			"error":       noIngredientsMessage,
			"ingredients": []string{},
		})
		return
	}
	s.respondWithJSON(w, http.StatusOK, result)
}

// handleFetchRecipeMeta returns page title and image for the bookmark form. An unreachable
// page is not an error here: the URL itself stands in as the title.
func (s *Server) handleFetchRecipeMeta(w http.ResponseWriter, r *http.Request) {
	var req domain.ExtractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.respondWithError(w, http.StatusBadRequest, "Invalid or missing URL")
		return
	}

	result, err := s.metadata.Extract(r.Context(), req.URL)
	if err != nil {
		var (
			ve *domain.ValidationError
			fe *domain.FetchError
			he *domain.HTTPError
		)
		switch {
		case errors.As(err, &ve):
			s.respondWithError(w, http.StatusBadRequest, "Invalid or missing URL")
		case errors.As(err, &fe), errors.As(err, &he):
			s.logger.Warn("metadata fetch failed, falling back to URL", zap.String("url", req.URL), zap.Error(err))
			s.respondWithJSON(w, http.StatusOK, domain.RecipeMeta{Title: req.URL})
		default:
			s.logger.Error("failed to fetch recipe metadata", zap.String("url", req.URL), zap.Error(err))
			s.respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	s.respondWithJSON(w, http.StatusOK, domain.RecipeMeta{Title: result.Title, ImageURL: result.ImageURL})
}

func (s *Server) handleStatusRequest(w http.ResponseWriter, r *http.Request) {
	if s.statuses == nil {
		s.respondWithError(w, http.StatusServiceUnavailable, "Status log is not configured")
		return
	}
	urlParam := r.URL.Query().Get("url")
	if urlParam == "" {
		s.respondWithError(w, http.StatusBadRequest, "URL query parameter is required")
		return
	}

	status, err := s.statuses.GetStatus(r.Context(), urlParam)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "URL status not found")
			return
		}
		s.logger.Error("failed to get extraction status", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve status")
		return
	}

	s.respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"server": "healthy"}
	isHealthy := true
	for name, dep := range s.checks {
		if err := dep.Ping(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			isHealthy = false
			s.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !isHealthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
