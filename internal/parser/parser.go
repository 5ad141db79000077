package parser

import (
	"fmt"

	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

// Extract returns the trimmed, non-empty text of every node in body that
// matches rule, in document order.
func Extract(body []byte, rule config.SelectorRule) ([]string, error) {
	switch rule.Type {
	case "", "css":
		return ExtractCSS(body, rule.Selector)
	case "xpath":
		return ExtractXPath(body, rule.Selector)
	case "jsonld":
		return ExtractJSONLD(body, rule.Selector)
	default:
		return nil, &types.ParseError{
			Selector: rule.Selector,
			Err:      fmt.Errorf("%w: unsupported type %q", types.ErrInvalidSelector, rule.Type),
		}
	}
}
