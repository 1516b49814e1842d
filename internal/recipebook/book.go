// Package recipebook manages bookmarked recipe pages.
package recipebook

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/domain"
	"github.com/user/recipe-parser/internal/extractor"
)

// Store persists recipes. PostgresStore implements it.
type Store interface {
	SaveRecipe(ctx context.Context, r *domain.Recipe) error
	FindRecipeByURL(ctx context.Context, url string) (*domain.Recipe, error)
	FindRecipeByID(ctx context.Context, id string) (*domain.Recipe, error)
	ListRecipes(ctx context.Context) ([]*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

type Book struct {
	store     Store
	extractor extractor.Service
	logger    *zap.Logger
	now       func() time.Time
}

func New(store Store, ex extractor.Service, logger *zap.Logger) *Book {
	return &Book{store: store, extractor: ex, logger: logger, now: time.Now}
}

// Add bookmarks rawURL. Title, image and ingredients are filled from the page when it
// can be fetched; an unreachable page is still saved with its URL as the title.
func (b *Book) Add(ctx context.Context, rawURL string) (*domain.Recipe, error) {
	trimmed := strings.TrimSpace(rawURL)
	if _, err := extractor.ValidateURL(trimmed); err != nil {
		return nil, err
	}

	if _, err := b.store.FindRecipeByURL(ctx, trimmed); err == nil {
		return nil, domain.ErrDuplicateRecipe
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	recipe := &domain.Recipe{
		ID:          uuid.NewString(),
		URL:         trimmed,
		Title:       trimmed,
		Ingredients: []string{},
		CreatedAt:   b.now().UTC(),
	}

	result, err := b.extractor.Extract(ctx, trimmed)
	var (
		fe *domain.FetchError
		he *domain.HTTPError
	)
	switch {
	case err == nil:
		recipe.Title = result.Title
		recipe.ImageURL = result.ImageURL
		recipe.Ingredients = result.Ingredients
	case errors.As(err, &fe), errors.As(err, &he):
		b.logger.Warn("saving recipe without page metadata", zap.String("url", trimmed), zap.Error(err))
	default:
		return nil, err
	}

	if err := b.store.SaveRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	b.logger.Info("recipe saved", zap.String("id", recipe.ID), zap.String("url", recipe.URL))
	return recipe, nil
}

func (b *Book) List(ctx context.Context) ([]*domain.Recipe, error) {
	return b.store.ListRecipes(ctx)
}

func (b *Book) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return b.store.FindRecipeByID(ctx, id)
}

func (b *Book) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return b.store.DeleteRecipe(ctx, id)
}
