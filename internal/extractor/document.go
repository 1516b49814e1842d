package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is the narrow view of a parsed page the strategies need.
type Document interface {
	// Texts returns the text content of every element matching selector, in document order.
	Texts(selector string) []string
	// Scripts returns the raw contents of <script> elements with the given type attribute.
	Scripts(scriptType string) []string
	// Attr returns attr of the first element matching selector.
	Attr(selector, attr string) (string, bool)
}

// Parser turns raw markup into a Document.
type Parser interface {
	Parse(body []byte) (Document, error)
}

// GoqueryParser parses HTML with goquery.
type GoqueryParser struct{}

func (GoqueryParser) Parse(body []byte) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &goqueryDocument{doc: doc}, nil
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d *goqueryDocument) Texts(selector string) []string {
	sel := d.doc.Find(selector)
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

func (d *goqueryDocument) Scripts(scriptType string) []string {
	var out []string
	d.doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		t, _ := s.Attr("type")
		if strings.EqualFold(strings.TrimSpace(t), scriptType) {
			out = append(out, s.Text())
		}
	})
	return out
}

func (d *goqueryDocument) Attr(selector, attr string) (string, bool) {
	return d.doc.Find(selector).First().Attr(attr)
}
