package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

// ClassificationService turns ticket text into a category and the team that owns it.
type ClassificationService struct {
	classifier  Classifier
	teams       TeamAssigner
	concurrency int
	logger      *zap.Logger
}

// NewClassificationService creates a ClassificationService. concurrency bounds
// how many texts of a batch are in flight when the classifier has no batch mode.
func NewClassificationService(classifier Classifier, teams TeamAssigner, concurrency int, logger *zap.Logger) *ClassificationService {
	if classifier == nil {
		panic("classifier must not be nil")
	}
	if teams == nil {
		panic("teams must not be nil")
	}
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &ClassificationService{
		classifier:  classifier,
		teams:       teams,
		concurrency: concurrency,
		logger:      logger.Named("classification"),
	}
}

// Classify predicts the category of one ticket and assigns its team.
func (s *ClassificationService) Classify(ctx context.Context, text string) (Prediction, error) {
	started := time.Now()

	category, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.logger.Error("classification failed", zap.Int("text_len", len(text)), zap.Error(err))
		return Prediction{}, err
	}

	p := s.predictionFor(category)
	s.logger.Debug("ticket classified",
		zap.String("category", p.Category),
		zap.String("team", p.AssignedTeam),
		zap.Duration("duration", time.Since(started)))
	return p, nil
}

// ClassifyBatch classifies texts and returns predictions in input order. The
// first failure aborts the batch.
func (s *ClassificationService) ClassifyBatch(ctx context.Context, texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return []Prediction{}, nil
	}
	started := time.Now()

	categories, err := s.classifyAll(ctx, texts)
	if err != nil {
		s.logger.Error("batch classification failed", zap.Int("rows", len(texts)), zap.Error(err))
		return nil, err
	}
	if len(categories) != len(texts) {
		return nil, fmt.Errorf("%w: got %d predictions for %d texts", ErrModelFailure, len(categories), len(texts))
	}

	out := make([]Prediction, len(categories))
	for i, c := range categories {
		out[i] = s.predictionFor(c)
	}
	s.logger.Info("batch classified",
		zap.Int("rows", len(texts)),
		zap.Duration("duration", time.Since(started)))
	return out, nil
}

func (s *ClassificationService) classifyAll(ctx context.Context, texts []string) ([]string, error) {
	if bc, ok := s.classifier.(BatchClassifier); ok {
		return bc.ClassifyBatch(ctx, texts)
	}

	categories := make([]string, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			c, err := s.classifier.Classify(gctx, text)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			categories[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *ClassificationService) predictionFor(category string) Prediction {
	return Prediction{Category: category, AssignedTeam: s.teams.Assign(category)}
}
