package web

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-dashboard/internal/apiclient"
	"github.com/spec-kit/barber-dashboard/internal/observability"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics) {
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(requestLogger(logger, metrics))
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = &apiclient.APIError{
					Category: apiclient.CategoryUnknown,
					Message:  "an unexpected error occurred",
				}
			}
			if err != nil {
				status, category, message := normalize(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), category)
				}
				if status >= 500 {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
				}
				c.Status(status)
				_ = c.JSON(fiber.Map{"error": fiber.Map{
					"category": category,
					"message":  message,
				}})
				err = nil
			}
		}()
		return c.Next()
	}
}

// normalize maps an error to a response status, category and message.
// Normalized client errors keep their category; everything else is unknown.
func normalize(err error) (int, string, string) {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return statusForCategory(apiErr.Category), string(apiErr.Category), apiErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		category := string(apiclient.CategoryValidation)
		if fiberErr.Code == http.StatusUnauthorized {
			category = string(apiclient.CategoryAuthorization)
		}
		return fiberErr.Code, category, fiberErr.Message
	}

	return http.StatusInternalServerError, string(apiclient.CategoryUnknown), "an unexpected error occurred"
}

func statusForCategory(category apiclient.Category) int {
	switch category {
	case apiclient.CategoryValidation:
		return http.StatusBadRequest
	case apiclient.CategoryAuthorization:
		return http.StatusUnauthorized
	case apiclient.CategoryForbidden:
		return http.StatusForbidden
	case apiclient.CategoryNotFound:
		return http.StatusNotFound
	case apiclient.CategoryRateLimited:
		return http.StatusTooManyRequests
	case apiclient.CategoryTimeout:
		return http.StatusGatewayTimeout
	case apiclient.CategoryNetworkUnreachable, apiclient.CategoryServerFault:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		if metrics != nil {
			metrics.RecordRequest(c.Path(), c.Method(), status, duration)
		}
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)
		return err
	}
}
