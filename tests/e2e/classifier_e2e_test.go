//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apihttp "github.com/godilite/ticket-classifier/internal/http"
	"github.com/godilite/ticket-classifier/internal/llm"
	"github.com/godilite/ticket-classifier/internal/service"
	"github.com/godilite/ticket-classifier/internal/strategy"
	"github.com/godilite/ticket-classifier/internal/teams"
	"github.com/godilite/ticket-classifier/internal/training"
	"github.com/godilite/ticket-classifier/tests/e2e/mocks"
)

var trainingTexts = map[string][]string{
	"hardware issue": {
		"laptop screen cracked", "keyboard keys are stuck", "monitor keeps flickering",
		"docking station not charging", "mouse stopped responding", "printer paper jam",
	},
	"software bug": {
		"application crashes when saving", "export button throws an exception", "login page shows error 500",
		"report totals are wrong", "search returns duplicate results", "app freezes on startup",
	},
	"password reset": {
		"forgot my password", "password expired please reset", "locked out of my account",
		"need to reset credentials", "password not accepted after change", "reset my login password",
	},
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("text,category\n")
	for category, texts := range trainingTexts {
		for i := 0; i < 2; i++ {
			for _, text := range texts {
				fmt.Fprintf(&b, "%s,%s\n", text, category)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "tickets.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func newApp(classifier service.Classifier) *fiber.App {
	svc := service.NewClassificationService(classifier, teams.Default(), 4, zap.NewNop())
	app := fiber.New(fiber.Config{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal})
	apihttp.NewHandlers(svc, zap.NewNop()).Register(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func postFile(t *testing.T, app *fiber.App, content string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "batch.csv")
	require.NoError(t, err)
	_, _ = io.WriteString(part, content)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/classify_file", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestE2E_TrainThenClassifyWithLegacyModel(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "model", "classifier.pkl")
	legacy := strategy.NewLegacy(modelPath, zap.NewNop())
	app := newApp(legacy)

	resp, raw := postJSON(t, app, "/classify", `{"text":"my laptop screen is cracked"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(raw), modelPath)

	var out bytes.Buffer
	result, err := training.NewTrainer(nil, nil, zap.NewNop(), &out).Train(context.Background(), training.Options{
		DataPath:  writeCorpus(t),
		ModelPath: modelPath,
		Seed:      training.DefaultSeed,
	})
	require.NoError(t, err)
	assert.Equal(t, training.SplitStratified, result.Split.Strategy)
	assert.Contains(t, out.String(), "Model saved to "+modelPath)

	resp, raw = postJSON(t, app, "/classify", `{"text":"I forgot my password again"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var single service.Prediction
	require.NoError(t, json.Unmarshal(raw, &single))
	assert.Equal(t, service.Prediction{Category: "password reset", AssignedTeam: "IT Support Desk"}, single)

	resp, raw = postFile(t, app, "ticket_id,text\nT-1,laptop screen cracked again\nT-2,application crashes when saving files\n")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var records []map[string]string
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "T-1", records[0]["ticket_id"])
	assert.Equal(t, "hardware issue", records[0]["category"])
	assert.Equal(t, "Hardware Support Team", records[0]["assigned_team"])
	assert.Equal(t, "software bug", records[1]["category"])
	assert.Equal(t, "Software Engineering Team", records[1]["assigned_team"])
}

func TestE2E_ZeroShotWithCache(t *testing.T) {
	var hits atomic.Int32
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		var ticket string
		if n := len(req.Messages); n > 0 {
			_, ticket, _ = strings.Cut(req.Messages[n-1].Content, "Ticket:\n")
		}
		label := "software bug"
		if strings.Contains(strings.ToLower(ticket), "password") {
			label = "password reset"
		}
		reply, _ := json.Marshal(map[string]any{"labels": []string{label}, "scores": []float64{0.9}})
		body, _ := json.Marshal(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": string(reply)},
				"finish_reason": "stop",
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer provider.Close()

	cfg := llm.Config{Provider: llm.ProviderOpenAI, Model: "test-model", APIKey: "sk-test", BaseURL: provider.URL}
	cache := mocks.NewMemoryCache()
	zeroShot := strategy.NewZeroShot(
		func(context.Context) (llm.Completer, error) { return llm.New(cfg, zap.NewNop()) },
		cache,
		strategy.ZeroShotConfig{Labels: teams.Default().Categories(), ModelName: "openai/test-model", CacheTTL: time.Minute},
		zap.NewNop(),
	)
	app := newApp(zeroShot)

	resp, raw := postJSON(t, app, "/classify", `{"text":"please reset my password"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"category":"password reset","assigned_team":"IT Support Desk"}`, string(raw))

	require.Eventually(t, func() bool {
		_, sets := cache.Calls()
		return sets == 1
	}, time.Second, 10*time.Millisecond)

	resp, raw = postJSON(t, app, "/classify", `{"text":"please reset my password"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, int32(1), hits.Load())

	resp, raw = postFile(t, app, "text\nexport crashes\nreset password please\nexport crashes\n")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var records []map[string]string
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "software bug", records[0]["category"])
	assert.Equal(t, "password reset", records[1]["category"])
	assert.Equal(t, "software bug", records[2]["category"])
}
