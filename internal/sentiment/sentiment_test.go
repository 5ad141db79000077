package sentiment

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/knights-analytics/hugot/pipelines"

	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestProbabilityScore(t *testing.T) {
	tests := []struct {
		name    string
		outputs []pipelines.ClassificationOutput
		want    float64
	}{
		{
			name: "both classes",
			outputs: []pipelines.ClassificationOutput{
				{Label: "NEGATIVE", Score: 0.1},
				{Label: "POSITIVE", Score: 0.9},
			},
			want: 0.8,
		},
		{
			name: "order does not matter",
			outputs: []pipelines.ClassificationOutput{
				{Label: "POSITIVE", Score: 0.25},
				{Label: "NEGATIVE", Score: 0.75},
			},
			want: -0.5,
		},
		{
			name:    "positive only",
			outputs: []pipelines.ClassificationOutput{{Label: "positive", Score: 0.6}},
			want:    0.2,
		},
		{
			name:    "negative only",
			outputs: []pipelines.ClassificationOutput{{Label: "NEG", Score: 0.5}},
			want:    0,
		},
		{
			name: "generic labels",
			outputs: []pipelines.ClassificationOutput{
				{Label: "LABEL_0", Score: 0.3},
				{Label: "LABEL_1", Score: 0.7},
			},
			want: 0.4,
		},
		{
			name: "unrecognised pair read by position",
			outputs: []pipelines.ClassificationOutput{
				{Label: "bad", Score: 0.2},
				{Label: "good", Score: 0.8},
			},
			want: 0.6,
		},
	}

	for _, tt := range tests {
		got, err := ProbabilityScore(tt.outputs)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestProbabilityScoreErrors(t *testing.T) {
	if _, err := ProbabilityScore(nil); !errors.Is(err, types.ErrEmptyModelOutput) {
		t.Errorf("expected ErrEmptyModelOutput, got %v", err)
	}
	_, err := ProbabilityScore([]pipelines.ClassificationOutput{{Label: "NEUTRAL", Score: 1}})
	if !errors.Is(err, types.ErrUnknownLabel) {
		t.Errorf("expected ErrUnknownLabel, got %v", err)
	}
}

func TestLexiconScorer(t *testing.T) {
	s := NewLexiconScorer(testLogger)
	defer s.Close()
	ctx := context.Background()

	good, err := s.Score(ctx, "Great charger, fast!")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if good <= 0 {
		t.Errorf("expected positive score, got %v", good)
	}

	bad, err := s.Score(ctx, "Terrible. It broke and I hate it.")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if bad >= 0 {
		t.Errorf("expected negative score, got %v", bad)
	}

	if good < -1 || good > 1 || bad < -1 || bad > 1 {
		t.Errorf("scores out of range: %v %v", good, bad)
	}
}

func TestLexiconScorerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLexiconScorer(testLogger).Score(ctx, "fine")
	var serr *types.ScoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ScoreError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPlainText(t *testing.T) {
	tests := map[string]string{
		"**Great** charger":                          "Great charger",
		"See [the listing](https://example.com/x) ok": "See the listing ok",
		"Visit https://example.com now":               "Visit now",
		"plain text":                                  "plain text",
	}
	for in, want := range tests {
		if got := PlainText(in); got != want {
			t.Errorf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewBackends(t *testing.T) {
	s, err := New(config.ModelConfig{Backend: "vader"}, testLogger)
	if err != nil {
		t.Fatalf("vader backend: %v", err)
	}
	if _, ok := s.(*LexiconScorer); !ok {
		t.Errorf("expected *LexiconScorer, got %T", s)
	}

	if _, err := New(config.ModelConfig{Backend: "bogus"}, testLogger); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestModelScorerMissingDir(t *testing.T) {
	cfg := config.ModelConfig{Backend: "onnx", Path: filepath.Join(t.TempDir(), "missing")}
	_, err := NewModelScorer(cfg, testLogger)
	if !errors.Is(err, types.ErrModelLoad) {
		t.Errorf("expected ErrModelLoad, got %v", err)
	}
}

func TestEnsureModelExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "model.onnx"), []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := EnsureModel(config.ModelConfig{Path: dir}, testLogger)
	if err != nil {
		t.Fatalf("ensure model: %v", err)
	}
	if got != dir {
		t.Errorf("expected %s, got %s", dir, got)
	}
}

func TestEnsureModelNoName(t *testing.T) {
	_, err := EnsureModel(config.ModelConfig{Path: t.TempDir()}, testLogger)
	if !errors.Is(err, types.ErrModelLoad) {
		t.Errorf("expected ErrModelLoad, got %v", err)
	}
}

func TestFuncScorer(t *testing.T) {
	var s Scorer = Func(func(ctx context.Context, text string) (float64, error) {
		return float64(len(text)), nil
	})
	got, _ := s.Score(context.Background(), "abc")
	if got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
	if err := s.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
