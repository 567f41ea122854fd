package http

import (
	"context"

	"github.com/godilite/ticket-classifier/internal/service"
)

// ClassificationService is what the handlers need from the service layer.
type ClassificationService interface {
	Classify(ctx context.Context, text string) (service.Prediction, error)
	ClassifyBatch(ctx context.Context, texts []string) ([]service.Prediction, error)
}
