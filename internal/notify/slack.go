// Package notify announces finished training runs.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/godilite/ticket-classifier/internal/repository/models"
)

const webhookTimeout = 10 * time.Second

// SlackWebhook posts a run summary to a Slack incoming webhook.
type SlackWebhook struct {
	url    string
	logger *zap.Logger
}

func NewSlackWebhook(url string, logger *zap.Logger) *SlackWebhook {
	if url == "" {
		panic("webhook url must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlackWebhook{url: url, logger: logger.Named("slack")}
}

func (s *SlackWebhook) NotifyTrainingRun(ctx context.Context, run models.TrainingRun) error {
	ctx, cancel := context.WithTimeout(ctx, webhookTimeout)
	defer cancel()

	if err := slack.PostWebhookContext(ctx, s.url, trainingMessage(run)); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	s.logger.Debug("training notification sent", zap.String("run_id", run.ID))
	return nil
}

func trainingMessage(run models.TrainingRun) *slack.WebhookMessage {
	color := "good"
	if run.SplitStrategy != "stratified" {
		color = "warning"
	}
	return &slack.WebhookMessage{
		Text: fmt.Sprintf("Ticket classifier trained: accuracy %.4f on %d rows", run.Accuracy, run.TotalRows),
		Attachments: []slack.Attachment{{
			Color:  color,
			Title:  "Training run " + run.ID,
			Footer: run.CreatedAt.UTC().Format(time.RFC3339),
			Fields: []slack.AttachmentField{
				{Title: "Data", Value: run.DataPath, Short: true},
				{Title: "Model", Value: run.ModelPath, Short: true},
				{Title: "Classes", Value: fmt.Sprint(run.ClassCount), Short: true},
				{Title: "Split", Value: fmt.Sprintf("%s (test_size %.4f)", run.SplitStrategy, run.TestSize), Short: true},
				{Title: "Train / test rows", Value: fmt.Sprintf("%d / %d", run.TrainRows, run.TestRows), Short: true},
				{Title: "Accuracy", Value: fmt.Sprintf("%.4f", run.Accuracy), Short: true},
			},
		}},
	}
}
