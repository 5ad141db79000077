package parser

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/ReviewScout/internal/types"
)

// DefaultJSONLDKey is the schema.org property holding a review's text.
const DefaultJSONLDKey = "reviewBody"

// ExtractJSONLD walks every <script type="application/ld+json"> block and
// returns the string values stored under key, in document order. Blocks
// that are not valid JSON are skipped.
func ExtractJSONLD(body []byte, key string) ([]string, error) {
	if key == "" {
		key = DefaultJSONLDKey
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{Selector: key, Err: err}
	}

	var results []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}
		results = collectKey(data, key, results)
	})

	return results, nil
}

// collectKey appends every non-empty string found under key, depth first.
func collectKey(node any, key string, out []string) []string {
	switch v := node.(type) {
	case map[string]any:
		if s, ok := v[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		// Sorted keys keep the output deterministic; arrays keep their order.
		for _, k := range slices.Sorted(maps.Keys(v)) {
			if k == key {
				continue
			}
			child := v[k]
			switch child.(type) {
			case map[string]any, []any:
				out = collectKey(child, key, out)
			}
		}
	case []any:
		for _, child := range v {
			out = collectKey(child, key, out)
		}
	}
	return out
}
