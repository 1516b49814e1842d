package domain

import "time"

// ExtractionRequest is the payload accepted by the extraction endpoints.
type ExtractionRequest struct {
	URL string `json:"url"`
}

// Strategy names the extraction strategy that produced a result.
type Strategy string

const (
	StrategyJSONLD   Strategy = "jsonld"
	StrategySelector Strategy = "selector"
	StrategyNone     Strategy = "none"
)

// ExtractionResult holds the ingredients and page metadata pulled from a recipe page.
type ExtractionResult struct {
	Ingredients []string `json:"ingredients"`
	Title       string   `json:"title"`
	ImageURL    *string  `json:"imageUrl"`
	Strategy    Strategy `json:"-"`
}

// RecipeMeta is the response body of the metadata endpoint.
type RecipeMeta struct {
	Title    string  `json:"title"`
	ImageURL *string `json:"imageUrl"`
}

// Outcome classifies how an extraction ended.
type Outcome string

const (
	OutcomeFound      Outcome = "found"
	OutcomeEmpty      Outcome = "empty"
	OutcomeFetchError Outcome = "fetch_error"
	OutcomeHTTPError  Outcome = "http_error"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeFailed     Outcome = "failed"
)

// ExtractionStatus is the last recorded outcome for a URL.
type ExtractionStatus struct {
	URL             string    `json:"url"`
	Outcome         Outcome   `json:"outcome"`
	Strategy        Strategy  `json:"strategy,omitempty"`
	IngredientCount int       `json:"ingredient_count"`
	Error           string    `json:"error,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
}

// Recipe is a bookmarked recipe page.
type Recipe struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	ImageURL    *string   `json:"imageUrl"`
	Ingredients []string  `json:"ingredients"`
	CreatedAt   time.Time `json:"created_at"`
}
