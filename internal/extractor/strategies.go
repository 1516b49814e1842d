package extractor

import (
	"encoding/json"

	"github.com/user/recipe-parser/internal/domain"
)

// strategy returns ingredient lines, or nil when it does not apply to the page.
type strategy struct {
	name domain.Strategy
	run  func(Document) []string
}

var strategies = []strategy{
	{name: domain.StrategyJSONLD, run: fromJSONLD},
	{name: domain.StrategySelector, run: fromSelectors},
}

// ingredientSelectors are tried in order; the first one matching anything wins.
var ingredientSelectors = []string{
	".recipe-ingredients li",
	".ingredients li",
	".ingredient-list li",
	`[itemprop="recipeIngredient"]`,
}

const jsonLDType = "application/ld+json"

// fromJSONLD reads schema.org Recipe data. Every script is inspected and a later
// qualifying script replaces an earlier one.
func fromJSONLD(doc Document) []string {
	var found []string
	for _, script := range doc.Scripts(jsonLDType) {
		if ingredients, ok := recipeIngredients(script); ok {
			found = ingredients
		}
	}
	return found
}

// recipeIngredients parses one script body. Malformed JSON and records of the wrong
// shape report ok=false and are skipped by the caller.
func recipeIngredients(script string) ([]string, bool) {
	var data any
	if err := json.Unmarshal([]byte(script), &data); err != nil {
		return nil, false
	}
	recipe := findRecipe(data)
	if recipe == nil {
		return nil, false
	}
	raw, ok := recipe["recipeIngredient"].([]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, stripTags(s))
	}
	return out, true
}

func findRecipe(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if isRecipe(v) {
			return v
		}
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok && isRecipe(m) {
				return m
			}
		}
	}
	return nil
}

func isRecipe(m map[string]any) bool {
	t, _ := m["@type"].(string)
	return t == "Recipe"
}

func fromSelectors(doc Document) []string {
	for _, selector := range ingredientSelectors {
		texts := doc.Texts(selector)
		if len(texts) == 0 {
			continue
		}
		out := make([]string, 0, len(texts))
		for _, text := range texts {
			if cleaned := collapseWhitespace(text); cleaned != "" {
				out = append(out, cleaned)
			}
		}
		return out
	}
	return nil
}
