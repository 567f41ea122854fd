package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/godilite/ticket-classifier/internal/dataset"
	"github.com/godilite/ticket-classifier/internal/service"
)

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Text *string `json:"text"`
}

type Handlers struct {
	svc    ClassificationService
	logger *zap.Logger
}

func NewHandlers(svc ClassificationService, logger *zap.Logger) *Handlers {
	if svc == nil {
		panic("classification service must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &Handlers{svc: svc, logger: logger.Named("http")}
}

// Register mounts the API routes.
func (h *Handlers) Register(app fiber.Router) {
	app.Post("/classify", h.Classify)
	app.Post("/classify_file", h.ClassifyFile)
	app.Get("/health", h.Health)
	app.Get("/@vite/client", h.ViteClient)
}

// Classify handles POST /classify.
func (h *Handlers) Classify(c *fiber.Ctx) error {
	var req ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return unprocessable(c, fmt.Sprintf("invalid request body: %v", err))
	}
	if req.Text == nil {
		return unprocessable(c, "field required: text")
	}

	pred, err := h.svc.Classify(c.UserContext(), *req.Text)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(pred)
}

// ClassifyFile handles POST /classify_file with a multipart CSV upload in field "file".
func (h *Handlers) ClassifyFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return unprocessable(c, "field required: file")
	}
	f, err := fh.Open()
	if err != nil {
		return h.handleError(c, csvError(err))
	}
	defer f.Close()

	table, err := dataset.ReadTable(f)
	if err != nil {
		return h.handleError(c, csvError(err))
	}
	textIdx, ok := table.Column(dataset.TextColumn)
	if !ok {
		return h.handleError(c, csvError(errors.New("CSV must contain a 'text' column")))
	}

	preds, err := h.svc.ClassifyBatch(c.UserContext(), table.Values(textIdx))
	if err != nil {
		return h.handleError(c, err)
	}

	records := table.Records()
	for i, rec := range records {
		rec["category"] = preds[i].Category
		rec["assigned_team"] = preds[i].AssignedTeam
	}
	h.logger.Info("file classified",
		zap.String("filename", fh.Filename),
		zap.Int("rows", len(records)))
	return c.JSON(records)
}

func csvError(err error) error {
	return service.NewDetailedError(service.ErrInvalidInput, "Error reading CSV: "+err.Error(), err)
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ViteClient answers the dev-server probe some frontends send.
func (h *Handlers) ViteClient(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/javascript")
	return c.SendString("")
}
