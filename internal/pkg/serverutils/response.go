package serverutils

import (
	"errors"

	"listening-notes-be/internal/pkg/apperror"
	"listening-notes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	MessageUnauthorized       = "Unauthorized"
	MessageInvalidRequest     = "Invalid request"
	MessageSomethingWentWrong = "Something went wrong"
)

type ErrorBody struct {
	Error  string           `json:"error"`
	Issues []apperror.Issue `json:"issues,omitempty"`
}

func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Error: message}
}

// ResolveError maps an error to its response. Auth errors win over everything,
// validation errors carry their issues, and anything else is a generic 400.
func ResolveError(err error) (int, ErrorBody) {
	if apperror.IsAuth(err) {
		return fiber.StatusUnauthorized, ErrorResponse(MessageUnauthorized)
	}
	if vErr, ok := apperror.AsValidation(err); ok {
		return fiber.StatusBadRequest, ErrorBody{Error: MessageInvalidRequest, Issues: vErr.Issues}
	}

	var fErr *fiber.Error
	if errors.As(err, &fErr) && (fErr.Code == fiber.StatusNotFound || fErr.Code == fiber.StatusMethodNotAllowed) {
		return fErr.Code, ErrorResponse(fErr.Message)
	}

	return fiber.StatusBadRequest, ErrorResponse(MessageSomethingWentWrong)
}

// ErrorHandlerMiddleware turns errors returned by downstream handlers into JSON
// responses. Internal detail is logged, never returned.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

// ErrorHandler is the fiber.Config fallback for errors that escape the middleware chain.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	status, body := ResolveError(err)

	if log != nil {
		details := map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": status,
			"error":  err.Error(),
		}
		switch {
		case status == fiber.StatusUnauthorized:
			log.Debug("HTTP", "request rejected", details)
		case body.Error == MessageSomethingWentWrong:
			log.Error("HTTP", "request failed", details)
		default:
			log.Info("HTTP", "request invalid", details)
		}
	}

	return ctx.Status(status).JSON(body)
}
