package parser

import (
	"errors"
	"testing"

	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

const reviewHTML = `<!DOCTYPE html>
<html>
<head><title>Charger reviews</title></head>
<body>
  <div id="cm-cr-dp-review-list">
    <div class="review">
      <span data-hook="review-title">Five stars</span>
      <span data-hook="review-body"><span>Great charger, fast!</span></span>
    </div>
    <div class="review">
      <span data-hook="review-body">
        Broke after a day
      </span>
    </div>
    <div class="review">
      <span data-hook="review-body">   </span>
    </div>
    <div class="review">
      <span data-hook="review-body">Great charger, fast!</span>
    </div>
  </div>
</body>
</html>`

func TestExtractCSS(t *testing.T) {
	got, err := Extract([]byte(reviewHTML), config.SelectorRule{
		Selector: `span[data-hook="review-body"]`,
		Type:     "css",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := []string{"Great charger, fast!", "Broke after a day", "Great charger, fast!"}
	if len(got) != len(want) {
		t.Fatalf("expected %d reviews, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("review %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtractXPathMatchesCSS(t *testing.T) {
	css, err := ExtractCSS([]byte(reviewHTML), `span[data-hook="review-body"]`)
	if err != nil {
		t.Fatalf("css: %v", err)
	}
	xp, err := Extract([]byte(reviewHTML), config.SelectorRule{
		Selector: `//span[@data-hook='review-body']`,
		Type:     "xpath",
	})
	if err != nil {
		t.Fatalf("xpath: %v", err)
	}

	if len(css) != len(xp) {
		t.Fatalf("css found %d, xpath found %d", len(css), len(xp))
	}
	for i := range css {
		if css[i] != xp[i] {
			t.Errorf("position %d: css %q vs xpath %q", i, css[i], xp[i])
		}
	}
}

func TestExtractNoMatches(t *testing.T) {
	got, err := ExtractCSS([]byte("<html><body><p>No reviews yet</p></body></html>"), `span[data-hook="review-body"]`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no reviews, got %q", got)
	}
}

func TestExtractInvalidXPath(t *testing.T) {
	_, err := ExtractXPath([]byte(reviewHTML), "//span[@data-hook=")
	if err == nil {
		t.Fatal("expected error for invalid xpath")
	}
	var perr *types.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if !errors.Is(err, types.ErrInvalidSelector) {
		t.Errorf("expected ErrInvalidSelector, got %v", err)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := Extract([]byte(reviewHTML), config.SelectorRule{Selector: "(.*)", Type: "regex"})
	if !errors.Is(err, types.ErrInvalidSelector) {
		t.Errorf("expected ErrInvalidSelector, got %v", err)
	}
}

const productJSONLD = `<html><head>
<script type="application/ld+json">{"@type": "Product", "name": "65W USB-C charger",
 "review": [
  {"@type": "Review", "author": {"name": "a"}, "reviewBody": "Great charger, fast!"},
  {"@type": "Review", "reviewBody": "Broke after a day"},
  {"@type": "Review", "reviewBody": "  "}
 ]}</script>
<script type="application/ld+json">not json</script>
<script type="application/ld+json">[{"@type": "Review", "reviewBody": "Does the job"}]</script>
</head><body></body></html>`

func TestExtractJSONLD(t *testing.T) {
	got, err := Extract([]byte(productJSONLD), config.SelectorRule{Type: "jsonld"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []string{"Great charger, fast!", "Broke after a day", "Does the job"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("review %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtractJSONLDCustomKey(t *testing.T) {
	got, err := ExtractJSONLD([]byte(productJSONLD), "name")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 2 || got[0] != "65W USB-C charger" || got[1] != "a" {
		t.Errorf("unexpected values: %v", got)
	}
}
