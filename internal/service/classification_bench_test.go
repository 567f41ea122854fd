package service

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/godilite/ticket-classifier/internal/service/mocks"
	"github.com/godilite/ticket-classifier/internal/teams"
)

func BenchmarkClassifyBatch(b *testing.B) {
	classifier := &mocks.MockClassifier{
		ClassifyFunc: func(_ context.Context, text string) (string, error) {
			return "software bug", nil
		},
	}
	svc := NewClassificationService(classifier, teams.Default(), 4, zap.NewNop())

	texts := make([]string, 256)
	for i := range texts {
		texts[i] = fmt.Sprintf("application crashes on save #%d", i)
	}
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := svc.ClassifyBatch(ctx, texts); err != nil {
			b.Fatal(err)
		}
	}
}
