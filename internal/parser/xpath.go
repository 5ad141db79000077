package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/ReviewScout/internal/types"
)

// ExtractXPath applies an XPath expression via htmlquery and returns matched text.
func ExtractXPath(body []byte, expr string) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{Selector: expr, Err: err}
	}

	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, &types.ParseError{
			Selector: expr,
			Err:      fmt.Errorf("%w: %v", types.ErrInvalidSelector, err),
		}
	}

	var values []string
	for _, node := range nodes {
		if val := strings.TrimSpace(htmlquery.InnerText(node)); val != "" {
			values = append(values, val)
		}
	}
	return values, nil
}
