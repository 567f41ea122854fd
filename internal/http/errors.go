package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/godilite/ticket-classifier/internal/service"
)

const (
	codeConfig       = "CONFIG_ERROR"
	codeInvalidInput = "INVALID_INPUT"
	codeInvalidBody  = "INVALID_BODY"
	codeModel        = "MODEL_ERROR"
	codeInternal     = "INTERNAL_ERROR"
	codeNotFound     = "NOT_FOUND"
	codeTooLarge     = "PAYLOAD_TOO_LARGE"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func (h *Handlers) handleError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, codeInternal
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, codeInvalidInput
	case errors.Is(err, service.ErrConfiguration):
		code = codeConfig
	case errors.Is(err, service.ErrModelFailure):
		code = codeModel
	}

	if status >= fiber.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("code", code),
			zap.Error(err))
	}
	return c.Status(status).JSON(ErrorResponse{Detail: err.Error(), Code: code})
}

func unprocessable(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Detail: detail, Code: codeInvalidBody})
}

// ErrorHandler renders errors that escape the handlers (unknown routes, oversized
// bodies, recovered panics) in the same ErrorResponse shape.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	return func(c *fiber.Ctx, err error) error {
		status, code, detail := fiber.StatusInternalServerError, codeInternal, "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status, detail = fe.Code, fe.Message
			switch fe.Code {
			case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
				code = codeNotFound
			case fiber.StatusRequestEntityTooLarge:
				code = codeTooLarge
			case fiber.StatusUnprocessableEntity:
				code = codeInvalidBody
			default:
				if fe.Code < fiber.StatusInternalServerError {
					code = codeInvalidInput
				}
			}
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("unhandled error",
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(status).JSON(ErrorResponse{Detail: detail, Code: code})
	}
}
