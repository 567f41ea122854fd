package mocks

import (
	"context"
	"errors"
)

// MockClassifier is a function-based service.Classifier.
type MockClassifier struct {
	ClassifyFunc func(ctx context.Context, text string) (string, error)
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (string, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}
	return "", errors.New("ClassifyFunc not implemented")
}

// MockBatchClassifier adds a batch mode to MockClassifier.
type MockBatchClassifier struct {
	MockClassifier
	ClassifyBatchFunc func(ctx context.Context, texts []string) ([]string, error)
}

func (m *MockBatchClassifier) ClassifyBatch(ctx context.Context, texts []string) ([]string, error) {
	if m.ClassifyBatchFunc != nil {
		return m.ClassifyBatchFunc(ctx, texts)
	}
	return nil, errors.New("ClassifyBatchFunc not implemented")
}
