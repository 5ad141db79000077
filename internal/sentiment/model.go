package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

// ModelScorer runs a two-class text-classification model through an
// ONNX Runtime session. The session and pipeline are created once and
// reused for every call.
type ModelScorer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	logger   *slog.Logger
}

// NewModelScorer loads the model from cfg.Path.
func NewModelScorer(cfg config.ModelConfig, logger *slog.Logger) (*ModelScorer, error) {
	logger = logger.With("component", "model_scorer")

	modelDir := cfg.ModelDir()
	if _, err := os.Stat(modelDir); err != nil {
		return nil, fmt.Errorf("%w: model directory %s: %w", types.ErrModelLoad, modelDir, err)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %w", types.ErrModelLoad, err)
	}

	pipelineConfig := hugot.TextClassificationConfig{
		ModelPath:    modelDir,
		Name:         "reviewSentiment",
		OnnxFilename: cfg.OnnxFilename,
		Options: []hugot.TextClassificationOption{
			pipelines.WithSoftmax(),
			pipelines.WithMultiLabel(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, pipelineConfig)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("%w: create pipeline: %w", types.ErrModelLoad, err)
	}

	logger.Info("sentiment model loaded", "path", modelDir)
	return &ModelScorer{session: session, pipeline: pipeline, logger: logger}, nil
}

// Score returns positive minus negative probability for text.
func (m *ModelScorer) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &types.ScoreError{Text: text, Err: err}
	}

	out, err := m.pipeline.RunPipeline([]string{text})
	if err != nil {
		return 0, &types.ScoreError{Text: text, Err: err}
	}
	if len(out.ClassificationOutputs) == 0 {
		return 0, &types.ScoreError{Text: text, Err: types.ErrEmptyModelOutput}
	}

	score, err := ProbabilityScore(out.ClassificationOutputs[0])
	if err != nil {
		return 0, &types.ScoreError{Text: text, Err: err}
	}
	m.logger.Debug("scored", "score", score)
	return score, nil
}

// Close destroys the ONNX Runtime session.
func (m *ModelScorer) Close() error {
	return m.session.Destroy()
}

// ProbabilityScore reduces a two-class output to positive minus negative.
// When the model reports only one class the other is its complement. Two
// outputs with unrecognised labels are read by position: index 0 is
// negative, index 1 positive.
func ProbabilityScore(outputs []pipelines.ClassificationOutput) (float64, error) {
	if len(outputs) == 0 {
		return 0, types.ErrEmptyModelOutput
	}

	var neg, pos float64
	var haveNeg, havePos bool
	for _, o := range outputs {
		switch strings.ToUpper(o.Label) {
		case "NEGATIVE", "NEG", "LABEL_0":
			neg, haveNeg = float64(o.Score), true
		case "POSITIVE", "POS", "LABEL_1":
			pos, havePos = float64(o.Score), true
		}
	}

	switch {
	case haveNeg && havePos:
	case havePos:
		neg = 1 - pos
	case haveNeg:
		pos = 1 - neg
	case len(outputs) == 2:
		neg, pos = float64(outputs[0].Score), float64(outputs[1].Score)
	default:
		return 0, fmt.Errorf("%w: %q", types.ErrUnknownLabel, outputs[0].Label)
	}
	return pos - neg, nil
}

// EnsureModel downloads cfg.Name into cfg.Path unless an .onnx file is
// already there. It returns the model directory.
func EnsureModel(cfg config.ModelConfig, logger *slog.Logger) (string, error) {
	logger = logger.With("component", "model_download")

	modelDir := cfg.ModelDir()
	if hasOnnx(modelDir) {
		logger.Debug("using existing model", "path", modelDir)
		return modelDir, nil
	}
	if cfg.Name == "" {
		return "", fmt.Errorf("%w: no model at %s and no model name to download", types.ErrModelLoad, modelDir)
	}

	parent := filepath.Dir(modelDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	logger.Info("model not found, downloading", "model", cfg.Name, "dest", parent)
	downloaded, err := hugot.DownloadModel(cfg.Name, parent, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("download %s: %w", cfg.Name, err)
	}

	if downloaded != modelDir {
		if err := os.Rename(downloaded, modelDir); err != nil {
			return "", fmt.Errorf("move model to %s: %w", modelDir, err)
		}
	}
	logger.Info("model downloaded", "path", modelDir)
	return modelDir, nil
}

func hasOnnx(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, "*.onnx"))
	return err == nil && len(matches) > 0
}
