package review

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/fetcher"
	"github.com/IshaanNene/ReviewScout/internal/observability"
	"github.com/IshaanNene/ReviewScout/internal/pipeline"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// fakePage reveals one more batch of reviews on each scroll.
type fakePage struct {
	batches   [][]string
	revealed  int
	searchErr error
	calls     []string
}

func (f *fakePage) Open(_ context.Context, url string) error {
	f.calls = append(f.calls, "open "+url)
	return nil
}

func (f *fakePage) Search(_ context.Context, selector, query string) error {
	f.calls = append(f.calls, "search "+query)
	if f.searchErr != nil {
		return f.searchErr
	}
	f.revealed = 1
	return nil
}

func (f *fakePage) ClickFirst(_ context.Context, selector string) error {
	f.calls = append(f.calls, "click "+selector)
	return nil
}

func (f *fakePage) ScrollToBottom(context.Context) error {
	if f.revealed < len(f.batches) {
		f.revealed++
	}
	return nil
}

func (f *fakePage) visible() []string {
	var out []string
	for _, b := range f.batches[:f.revealed] {
		out = append(out, b...)
	}
	return out
}

func (f *fakePage) Count(context.Context, string) (int, error) { return len(f.visible()), nil }

func (f *fakePage) Texts(context.Context, string) ([]string, error) { return f.visible(), nil }

func (f *fakePage) URL() string { return "https://shop.example/product" }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Extract.PollInterval = time.Millisecond
	cfg.Extract.Timeout = time.Second
	cfg.Extract.StableRounds = 2
	return cfg
}

func TestBrowserSourceCollectsAfterScrolling(t *testing.T) {
	page := &fakePage{batches: [][]string{
		{"Great charger, fast!", "  "},
		{"Broke after a day"},
		{"Great   charger,\n fast!"},
	}}
	metrics := observability.NewMetrics(testLogger)
	src := NewBrowserSource(page, testConfig(), pipeline.Default(testLogger, 1), metrics, testLogger)

	reviews, err := src.Reviews(context.Background())
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}

	var texts []string
	for i, r := range reviews {
		if r.Index != i {
			t.Errorf("expected index %d, got %d", i, r.Index)
		}
		if r.SourceURL != page.URL() {
			t.Errorf("unexpected source url %s", r.SourceURL)
		}
		texts = append(texts, r.Text)
	}
	want := []string{"Great charger, fast!", "Broke after a day", "Great charger, fast!"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("expected %v, got %v", want, texts)
	}
	if got := testutil.ToFloat64(metrics.ReviewsExtracted); got != 3 {
		t.Errorf("expected 3 extracted in metrics, got %v", got)
	}
	if page.calls[0] != "open https://www.amazon.com" || page.calls[1] != "search computer charger" {
		t.Errorf("unexpected driver calls: %v", page.calls)
	}
}

func TestBrowserSourceKeepsRenderedText(t *testing.T) {
	page := &fakePage{batches: [][]string{{
		"Charges at <5W when battery > 80%, love it",
		"Tom &amp; Jerry approved",
	}}}
	src := NewBrowserSource(page, testConfig(), pipeline.Default(testLogger, 1), nil, testLogger)

	reviews, err := src.Reviews(context.Background())
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}
	want := []string{"Charges at <5W when battery > 80%, love it", "Tom &amp; Jerry approved"}
	if len(reviews) != len(want) {
		t.Fatalf("expected %d reviews, got %d", len(want), len(reviews))
	}
	for i, r := range reviews {
		if r.Text != want[i] {
			t.Errorf("review %d: expected %q, got %q", i, want[i], r.Text)
		}
	}
}

func TestBrowserSourceClicksResult(t *testing.T) {
	page := &fakePage{batches: [][]string{{"ok"}}}
	cfg := testConfig()
	cfg.Target.ResultSelector = "div.s-result-item a"

	if _, err := NewBrowserSource(page, cfg, nil, nil, testLogger).Reviews(context.Background()); err != nil {
		t.Fatalf("reviews: %v", err)
	}
	if page.calls[2] != "click div.s-result-item a" {
		t.Errorf("expected click after search, got %v", page.calls)
	}
}

func TestBrowserSourceSearchFailure(t *testing.T) {
	page := &fakePage{
		batches:   [][]string{{"never read"}},
		searchErr: &types.BrowserError{Op: "search", Selector: "#missing", Err: types.ErrElementNotFound},
	}
	metrics := observability.NewMetrics(testLogger)

	reviews, err := NewBrowserSource(page, testConfig(), nil, metrics, testLogger).Reviews(context.Background())
	if !errors.Is(err, types.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
	if reviews != nil {
		t.Errorf("expected no partial result, got %v", reviews)
	}
	if got := testutil.ToFloat64(metrics.ErrorsTotal.WithLabelValues(observability.StageExtract)); got != 1 {
		t.Errorf("expected 1 extract error, got %v", got)
	}
}

func TestBrowserSourceEmpty(t *testing.T) {
	page := &fakePage{batches: [][]string{{}}}
	reviews, err := NewBrowserSource(page, testConfig(), nil, nil, testLogger).Reviews(context.Background())
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("expected no reviews, got %v", reviews)
	}
}

const productHTML = `<html><body>
<div id="cm_cr-review_list">
  <span data-hook="review-body"><span>Great charger, fast!</span></span>
  <span data-hook="review-body">Broke after a day</span>
  <span data-hook="review-body">   </span>
</div>
</body></html>`

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.html")
	if err := os.WriteFile(path, []byte(productHTML), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, rule := range []config.SelectorRule{
		{Selector: `span[data-hook="review-body"]`, Type: "css"},
		{Selector: `//span[@data-hook='review-body']`, Type: "xpath"},
	} {
		src := NewFileSource(path, rule, pipeline.Default(testLogger, 1), nil, testLogger)
		reviews, err := src.Reviews(context.Background())
		if err != nil {
			t.Fatalf("%s: reviews: %v", rule.Type, err)
		}
		if len(reviews) != 2 {
			t.Fatalf("%s: expected 2 reviews, got %d", rule.Type, len(reviews))
		}
		if reviews[1].Text != "Broke after a day" || reviews[1].Index != 1 {
			t.Errorf("%s: unexpected review %+v", rule.Type, reviews[1])
		}
	}
}

func TestFileSourceMissing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.html"), config.SelectorRule{Selector: "span"}, nil, nil, testLogger)
	if _, err := src.Reviews(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productHTML))
	}))
	defer srv.Close()

	f, err := fetcher.NewHTTPFetcher(config.DefaultConfig().Browser, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rule := config.DefaultConfig().Extract.Review
	reviews, err := NewHTTPSource(f, srv.URL, rule, pipeline.Default(testLogger, 1), nil, testLogger).Reviews(context.Background())
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}
	if len(reviews) != 2 || reviews[0].Text != "Great charger, fast!" {
		t.Errorf("unexpected reviews: %+v", reviews)
	}
}
