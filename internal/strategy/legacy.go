package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/ticket-classifier/internal/service"
	"github.com/godilite/ticket-classifier/internal/textmodel"
	"github.com/godilite/ticket-classifier/pkg/lazy"
)

// Legacy classifies with the TF-IDF + Naive Bayes pipeline written by the
// training command. The artifact is read on first use.
type Legacy struct {
	modelPath string
	model     *lazy.Cell[*textmodel.Pipeline]
	onLoad    func()
	logger    *zap.Logger
}

type LegacyOption func(*Legacy)

// WithOnLoad registers a callback invoked once the artifact has been loaded.
func WithOnLoad(fn func()) LegacyOption {
	return func(l *Legacy) { l.onLoad = fn }
}

func NewLegacy(modelPath string, logger *zap.Logger, opts ...LegacyOption) *Legacy {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Legacy{
		modelPath: modelPath,
		logger:    logger.Named("legacy"),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.model = lazy.New(l.load)
	return l
}

func (l *Legacy) load(context.Context) (*textmodel.Pipeline, error) {
	started := time.Now()

	p, err := textmodel.Load(l.modelPath)
	if errors.Is(err, textmodel.ErrArtifactNotFound) {
		return nil, service.NewDetailedError(service.ErrModelNotFound,
			fmt.Sprintf("Model not found at %s. Train the model first.", l.modelPath), err)
	}
	if err != nil {
		return nil, service.NewDetailedError(service.ErrModelFailure,
			fmt.Sprintf("Failed to load model from %s: %v", l.modelPath, err), err)
	}

	l.logger.Info("model loaded",
		zap.String("path", l.modelPath),
		zap.Strings("classes", p.Classes()),
		zap.Duration("duration", time.Since(started)))
	if l.onLoad != nil {
		l.onLoad()
	}
	return p, nil
}

// Ready loads the artifact if it is not loaded yet.
func (l *Legacy) Ready(ctx context.Context) error {
	_, err := l.model.Get(ctx)
	return err
}

func (l *Legacy) Classify(ctx context.Context, text string) (string, error) {
	preds, err := l.ClassifyBatch(ctx, []string{text})
	if err != nil {
		return "", err
	}
	return preds[0], nil
}

// ClassifyBatch predicts all texts in one pass over the pipeline.
func (l *Legacy) ClassifyBatch(ctx context.Context, texts []string) ([]string, error) {
	p, err := l.model.Get(ctx)
	if err != nil {
		return nil, err
	}
	preds, err := p.Predict(texts)
	if err != nil {
		return nil, service.NewDetailedError(service.ErrModelFailure, err.Error(), err)
	}
	return preds, nil
}
