package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/config"
	"github.com/user/recipe-parser/internal/domain"
	"github.com/user/recipe-parser/internal/monitoring"
)

type stubExtractor struct {
	result *domain.ExtractionResult
	err    error
	gotURL string
}

func (s *stubExtractor) Extract(_ context.Context, rawURL string) (*domain.ExtractionResult, error) {
	s.gotURL = rawURL
	return s.result, s.err
}

type stubStatuses map[string]*domain.ExtractionStatus

func (s stubStatuses) GetStatus(_ context.Context, url string) (*domain.ExtractionStatus, error) {
	if st, ok := s[url]; ok {
		return st, nil
	}
	return nil, domain.ErrNotFound
}

type stubBook struct {
	recipes map[string]*domain.Recipe
	addErr  error
}

func (b *stubBook) Add(_ context.Context, rawURL string) (*domain.Recipe, error) {
	if b.addErr != nil {
		return nil, b.addErr
	}
	r := &domain.Recipe{ID: "3f0c8a52-8d7e-4d53-9d8e-0a4b8f1f2c11", URL: rawURL, Title: rawURL, Ingredients: []string{}}
	b.recipes[r.ID] = r
	return r, nil
}

func (b *stubBook) List(context.Context) ([]*domain.Recipe, error) {
	out := []*domain.Recipe{}
	for _, r := range b.recipes {
		out = append(out, r)
	}
	return out, nil
}

func (b *stubBook) Get(_ context.Context, id string) (*domain.Recipe, error) {
	if r, ok := b.recipes[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (b *stubBook) Delete(_ context.Context, id string) error {
	if _, ok := b.recipes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(b.recipes, id)
	return nil
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(ex *stubExtractor, statuses StatusReader, book RecipeBook, checks map[string]Pinger) (*Server, *monitoring.Metrics) {
	m := monitoring.NewMetrics(prometheus.NewRegistry())
	return NewServer(&config.Config{ServerPort: "0"}, ex, ex, statuses, book, checks, m, zap.NewNop()), m
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var payload map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	}
	return rec, payload
}

func TestRoot(t *testing.T) {
	s, _ := newTestServer(&stubExtractor{}, nil, nil, nil)

	rec, _ := do(t, s, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Recipe Parser Backend is running!", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParseRecipe_StatusMapping(t *testing.T) {
	image := "https://example.com/a.jpg"
	tests := []struct {
		name       string
		result     *domain.ExtractionResult
		err        error
		target     string
		wantStatus int
		wantError  string
	}{
		{
			name:       "ingredients found",
			result:     &domain.ExtractionResult{Ingredients: []string{"2 eggs"}, Title: "Omelette", ImageURL: &image},
			target:     "/parse-recipe?url=https://example.com/omelette",
			wantStatus: http.StatusOK,
		},
		{
			name:       "nothing extracted",
			result:     &domain.ExtractionResult{Ingredients: []string{}, Title: "Blog"},
			target:     "/parse-recipe?url=https://example.com/blog",
			wantStatus: http.StatusNotFound,
			wantError:  "Could not automatically extract ingredients from this URL.",
		},
		{
			name:       "missing url",
			target:     "/parse-recipe",
			wantStatus: http.StatusBadRequest,
			wantError:  "URL query parameter is required",
		},
		{
			name:       "invalid url",
			err:        &domain.ValidationError{URL: "nope", Reason: "missing scheme or host"},
			target:     "/parse-recipe?url=nope",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid URL: missing scheme or host",
		},
		{
			name:       "upstream status",
			err:        &domain.HTTPError{StatusCode: 403, URL: "https://example.com/x"},
			target:     "/parse-recipe?url=https://example.com/x",
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to fetch URL (HTTP error! status: 403 for URL: https://example.com/x)",
		},
		{
			name:       "transport failure",
			err:        &domain.FetchError{URL: "https://example.com/x", Err: context.DeadlineExceeded},
			target:     "/parse-recipe?url=https://example.com/x",
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to fetch URL (fetch https://example.com/x: context deadline exceeded)",
		},
		{
			name:       "unexpected failure",
			err:        errors.New("parse html: boom"),
			target:     "/parse-recipe?url=https://example.com/x",
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to parse recipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(&stubExtractor{result: tt.result, err: tt.err}, nil, nil, nil)

			rec, payload := do(t, s, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, payload["error"])
				return
			}
			assert.Equal(t, []any{"2 eggs"}, payload["ingredients"])
			assert.Equal(t, "Omelette", payload["title"])
			assert.Equal(t, image, payload["imageUrl"])
		})
	}
}

func TestParseRecipe_NotFoundIncludesEmptyIngredients(t *testing.T) {
	s, _ := newTestServer(&stubExtractor{result: &domain.ExtractionResult{Ingredients: []string{}}}, nil, nil, nil)

	rec, _ := do(t, s, http.MethodGet, "/parse-recipe?url=https://example.com/blog", "")

	assert.JSONEq(t, `{"error":"Could not automatically extract ingredients from this URL.","ingredients":[]}`, rec.Body.String())
}

func TestParseRecipe_PostBody(t *testing.T) {
	ex := &stubExtractor{result: &domain.ExtractionResult{Ingredients: []string{"1 cup flour"}, Title: "Bread"}}
	s, _ := newTestServer(ex, nil, nil, nil)

	rec, payload := do(t, s, http.MethodPost, "/api/parse-recipe", `{"url":"https://example.com/bread"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com/bread", ex.gotURL)
	assert.Nil(t, payload["imageUrl"])

	rec, payload = do(t, s, http.MethodPost, "/api/parse-recipe", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", payload["error"])
}

func TestFetchRecipeMeta(t *testing.T) {
	image := "https://example.com/pie.jpg"
	t.Run("metadata", func(t *testing.T) {
		s, _ := newTestServer(&stubExtractor{result: &domain.ExtractionResult{Ingredients: []string{}, Title: "Pie", ImageURL: &image}}, nil, nil, nil)
		rec, _ := do(t, s, http.MethodPost, "/api/fetch_recipe_meta", `{"url":"https://example.com/pie"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"title":"Pie","imageUrl":"https://example.com/pie.jpg"}`, rec.Body.String())
	})
	t.Run("fetch failure falls back to url", func(t *testing.T) {
		s, _ := newTestServer(&stubExtractor{err: &domain.HTTPError{StatusCode: 500, URL: "https://example.com/pie"}}, nil, nil, nil)
		rec, _ := do(t, s, http.MethodPost, "/api/fetch_recipe_meta", `{"url":"https://example.com/pie"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"title":"https://example.com/pie","imageUrl":null}`, rec.Body.String())
	})
	t.Run("missing url", func(t *testing.T) {
		s, _ := newTestServer(&stubExtractor{}, nil, nil, nil)
		rec, payload := do(t, s, http.MethodPost, "/api/fetch_recipe_meta", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid or missing URL", payload["error"])
	})
	t.Run("invalid json", func(t *testing.T) {
		s, _ := newTestServer(&stubExtractor{}, nil, nil, nil)
		rec, payload := do(t, s, http.MethodPost, "/api/fetch_recipe_meta", `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON", payload["error"])
	})
	t.Run("unexpected failure", func(t *testing.T) {
		s, _ := newTestServer(&stubExtractor{err: errors.New("boom")}, nil, nil, nil)
		rec, payload := do(t, s, http.MethodPost, "/api/fetch_recipe_meta", `{"url":"https://example.com/pie"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", payload["error"])
	})
}

func TestFetchRecipeMeta_UsesMetadataExtractor(t *testing.T) {
	tracked := &stubExtractor{}
	core := &stubExtractor{result: &domain.ExtractionResult{Ingredients: []string{}, Title: "Pie"}}
	s := NewServer(&config.Config{ServerPort: "0"}, tracked, core, nil, nil, nil,
		monitoring.NewMetrics(prometheus.NewRegistry()), zap.NewNop())

	rec, payload := do(t, s, http.MethodPost, "/api/fetch_recipe_meta", `{"url":"https://example.com/pie"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pie", payload["title"])
	assert.Equal(t, "https://example.com/pie", core.gotURL)
	assert.Empty(t, tracked.gotURL)
}

func TestStatusRequest(t *testing.T) {
	checked := time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)
	statuses := stubStatuses{"https://example.com/a": {
		URL: "https://example.com/a", Outcome: domain.OutcomeFound, Strategy: domain.StrategyJSONLD,
		IngredientCount: 4, CheckedAt: checked,
	}}
	s, _ := newTestServer(&stubExtractor{}, statuses, nil, nil)

	rec, payload := do(t, s, http.MethodGet, "/api/status?url=https://example.com/a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "found", payload["outcome"])
	assert.EqualValues(t, 4, payload["ingredient_count"])

	rec, _ = do(t, s, http.MethodGet, "/api/status?url=https://example.com/b", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	disabled, _ := newTestServer(&stubExtractor{}, nil, nil, nil)
	rec, _ = do(t, disabled, http.MethodGet, "/api/status?url=https://example.com/a", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecipes(t *testing.T) {
	book := &stubBook{recipes: map[string]*domain.Recipe{}}
	s, _ := newTestServer(&stubExtractor{}, nil, book, nil)

	rec, payload := do(t, s, http.MethodPost, "/api/recipes", `{"url":"https://example.com/stew"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := payload["id"].(string)
	require.NotEmpty(t, id)

	rec, _ = do(t, s, http.MethodGet, "/api/recipes", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, payload = do(t, s, http.MethodGet, "/api/recipes/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com/stew", payload["url"])

	rec, _ = do(t, s, http.MethodDelete, "/api/recipes/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/recipes/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecipes_Errors(t *testing.T) {
	dup, _ := newTestServer(&stubExtractor{}, nil, &stubBook{recipes: map[string]*domain.Recipe{}, addErr: domain.ErrDuplicateRecipe}, nil)
	rec, _ := do(t, dup, http.MethodPost, "/api/recipes", `{"url":"https://example.com/stew"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	disabled, _ := newTestServer(&stubExtractor{}, nil, nil, nil)
	rec, _ = do(t, disabled, http.MethodGet, "/api/recipes", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	healthy, _ := newTestServer(&stubExtractor{}, nil, nil, map[string]Pinger{
		"redis": pingFunc(func(context.Context) error { return nil }),
	})
	rec, payload := do(t, healthy, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", payload["redis"])

	down, _ := newTestServer(&stubExtractor{}, nil, nil, map[string]Pinger{
		"redis":    pingFunc(func(context.Context) error { return nil }),
		"postgres": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	rec, payload = do(t, down, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", payload["postgres"])
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	book := &stubBook{recipes: map[string]*domain.Recipe{}}
	s, m := newTestServer(&stubExtractor{}, nil, book, nil)

	do(t, s, http.MethodGet, "/api/recipes/3f0c8a52-8d7e-4d53-9d8e-0a4b8f1f2c11", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/recipes/{id}", "404")))
}
