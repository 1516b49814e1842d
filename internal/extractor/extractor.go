// Package extractor pulls an ingredient list and basic metadata out of an
// arbitrary recipe page.
package extractor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/domain"
	"github.com/user/recipe-parser/internal/fetcher"
)

// Fetcher retrieves a page body. Implementations report failures as
// *domain.FetchError or *domain.HTTPError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, id fetcher.Identity) ([]byte, error)
}

// Extractor is stateless between calls and safe for concurrent use.
type Extractor struct {
	fetcher  Fetcher
	parser   Parser
	identity fetcher.Identity
	logger   *zap.Logger
}

func New(f Fetcher, p Parser, id fetcher.Identity, logger *zap.Logger) *Extractor {
	if p == nil {
		p = GoqueryParser{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{fetcher: f, parser: p, identity: id, logger: logger}
}

// Extract fetches rawURL and returns its ingredients, title and image. A page with
// no recognizable ingredients yields an empty, non-nil slice and no error.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.ExtractionResult, error) {
	pageURL, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	target := pageURL.String()

	body, err := e.fetcher.Fetch(ctx, target, e.identity)
	if err != nil {
		return nil, err
	}

	doc, err := e.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}

	result := &domain.ExtractionResult{
		Ingredients: []string{},
		Strategy:    domain.StrategyNone,
		Title:       pageTitle(doc, target),
		ImageURL:    pageImage(doc, pageURL),
	}
	for _, s := range strategies {
		lines := s.run(doc)
		if len(lines) == 0 {
			e.logger.Debug("strategy found nothing", zap.String("strategy", string(s.name)), zap.String("url", target))
			continue
		}
		result.Strategy = s.name
		result.Ingredients = decodeEntities(filterNoise(lines))
		break
	}

	e.logger.Info("extraction finished",
		zap.String("url", target),
		zap.String("strategy", string(result.Strategy)),
		zap.Int("ingredients", len(result.Ingredients)),
	)
	return result, nil
}

// ValidateURL accepts absolute http(s) URLs with a host.
func ValidateURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, &domain.ValidationError{URL: rawURL, Reason: "URL is required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, &domain.ValidationError{URL: rawURL, Reason: err.Error()}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &domain.ValidationError{URL: rawURL, Reason: "URL must be absolute"}
	}
	if !fetcher.IsHTTPScheme(u) {
		return nil, &domain.ValidationError{URL: rawURL, Reason: "unsupported scheme " + u.Scheme}
	}
	return u, nil
}
