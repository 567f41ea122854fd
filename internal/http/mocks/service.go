package mocks

import (
	"context"
	"errors"

	"github.com/godilite/ticket-classifier/internal/service"
)

// MockClassificationService is a mock implementation of the ClassificationService
// interface for testing the handler layer.
type MockClassificationService struct {
	ClassifyFunc      func(ctx context.Context, text string) (service.Prediction, error)
	ClassifyBatchFunc func(ctx context.Context, texts []string) ([]service.Prediction, error)
}

func (m *MockClassificationService) Classify(ctx context.Context, text string) (service.Prediction, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}
	return service.Prediction{}, errors.New("ClassifyFunc not implemented")
}

func (m *MockClassificationService) ClassifyBatch(ctx context.Context, texts []string) ([]service.Prediction, error) {
	if m.ClassifyBatchFunc != nil {
		return m.ClassifyBatchFunc(ctx, texts)
	}
	return nil, errors.New("ClassifyBatchFunc not implemented")
}
