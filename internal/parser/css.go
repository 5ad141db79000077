package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/ReviewScout/internal/types"
)

// ExtractCSS applies a CSS selector via goquery and returns matched text.
func ExtractCSS(body []byte, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{Selector: selector, Err: err}
	}

	var values []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if val := strings.TrimSpace(sel.Text()); val != "" {
			values = append(values, val)
		}
	})
	return values, nil
}
