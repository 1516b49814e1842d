package extractor

import (
	"net/url"
	"strings"

	"github.com/user/recipe-parser/pkg/utils"
)

// pageTitle prefers og:title, then <title>, then the page URL itself.
func pageTitle(doc Document, pageURL string) string {
	if title, ok := doc.Attr(`meta[property="og:title"]`, "content"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if titles := doc.Texts("title"); len(titles) > 0 {
		if title := strings.TrimSpace(titles[0]); title != "" {
			return title
		}
	}
	return pageURL
}

// pageImage prefers og:image, then <link rel="image_src">, resolved against base.
func pageImage(doc Document, base *url.URL) *string {
	image, ok := doc.Attr(`meta[property="og:image"]`, "content")
	if !ok || strings.TrimSpace(image) == "" {
		image, ok = doc.Attr(`link[rel="image_src"]`, "href")
	}
	image = strings.TrimSpace(image)
	if !ok || image == "" {
		return nil
	}
	abs, err := utils.ToAbsoluteURL(base, image)
	if err != nil {
		return nil
	}
	return &abs
}
