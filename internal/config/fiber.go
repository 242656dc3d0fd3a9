package config

import (
	"errors"

	"VoiceAssistant/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// bodyLimitSlack leaves room for multipart framing so oversized files are
// rejected by the asset store with a 400 rather than by fasthttp.
const bodyLimitSlack = 1 << 20

func NewFiber(logger *logrus.Logger, maxUploadSize int64) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:          "Voice Assistant",
			BodyLimit:        int(maxUploadSize) + bodyLimitSlack,
			DisableKeepalive: false,
			StrictRouting:    false,
			CaseSensitive:    true,
			JSONEncoder:      jsoniter.Marshal,
			JSONDecoder:      jsoniter.Unmarshal,
			ErrorHandler:     newErrorHandler(logger),
		})

	return app
}

func newErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An unexpected error occurred"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.Locals("X-Request-ID"),
			"path":       c.Path(),
			"status":     code,
			"error":      err.Error(),
		})
		if code >= fiber.StatusInternalServerError {
			entry.Error("Unhandled error")
		} else {
			entry.Debug("Request rejected")
		}

		return c.Status(code).JSON(handlerUtil.ErrorResponse{Error: message})
	}
}
