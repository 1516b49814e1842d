package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var (
	// Not a sanitizer: unbalanced or attribute-embedded '>' will leave fragments behind.
	tagPattern = regexp.MustCompile(`<[^>]*>`)

	noiseKeywords = []string{"instructions", "directions", "steps"}
)

const minIngredientLen = 3

func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// collapseWhitespace also folds non-breaking and other Unicode spaces, which
// ingredient markup uses heavily ("2&nbsp;cups").
func collapseWhitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// filterNoise drops lines too short to be an ingredient and lines that look like
// a method section heading caught by a selector.
func filterNoise(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if utf8.RuneCountInString(line) < minIngredientLen {
			continue
		}
		if containsAny(strings.ToLower(line), noiseKeywords) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func decodeEntities(lines []string) []string {
	for i, line := range lines {
		lines[i] = html.UnescapeString(line)
	}
	return lines
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
