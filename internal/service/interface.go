package service

import "context"

// Classifier maps ticket text to one category from a closed set.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// BatchClassifier is implemented by strategies that classify many texts in one call.
type BatchClassifier interface {
	Classifier
	ClassifyBatch(ctx context.Context, texts []string) ([]string, error)
}

// TeamAssigner resolves the team responsible for a category.
type TeamAssigner interface {
	Assign(category string) string
}
