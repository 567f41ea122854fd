package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/ticket-classifier/internal/repository/models"
)

func sampleRun() models.TrainingRun {
	return models.TrainingRun{
		ID:            "run-1",
		DataPath:      "tickets.csv",
		ModelPath:     "model/classifier.pkl",
		TotalRows:     90,
		ClassCount:    3,
		TrainRows:     72,
		TestRows:      18,
		TestSize:      0.2,
		SplitStrategy: "stratified",
		Accuracy:      0.9444,
		CreatedAt:     time.Date(2025, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func TestSlackWebhook_NotifyTrainingRun(t *testing.T) {
	received := make(chan slack.WebhookMessage, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var msg slack.WebhookMessage
		assert.NoError(t, json.Unmarshal(raw, &msg))
		received <- msg
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	n := NewSlackWebhook(srv.URL, zaptest.NewLogger(t))
	require.NoError(t, n.NotifyTrainingRun(context.Background(), sampleRun()))

	msg := <-received
	assert.Contains(t, msg.Text, "accuracy 0.9444 on 90 rows")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "good", msg.Attachments[0].Color)
	assert.Equal(t, "Training run run-1", msg.Attachments[0].Title)
}

func TestSlackWebhook_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "invalid_token")
	}))
	defer srv.Close()

	err := NewSlackWebhook(srv.URL, nil).NotifyTrainingRun(context.Background(), sampleRun())
	assert.ErrorContains(t, err, "post slack webhook")
}

func TestTrainingMessage_NonStratifiedWarns(t *testing.T) {
	run := sampleRun()
	run.SplitStrategy = "full_set"

	msg := trainingMessage(run)
	assert.Equal(t, "warning", msg.Attachments[0].Color)
}

func TestNewSlackWebhook_EmptyURLPanics(t *testing.T) {
	assert.Panics(t, func() { NewSlackWebhook("", nil) })
}
