package settingsHandler

import (
	"time"

	settingsService "VoiceAssistant/internal/api/settings/service"
	"VoiceAssistant/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SettingsHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	settingsService settingsService.ISettingsService
	timeout         time.Duration
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ss settingsService.ISettingsService,
	timeout time.Duration,
) *SettingsHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SettingsHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		settingsService: ss,
		timeout:         timeout,
	}
}

func (h *SettingsHandler) Start(srv fiber.Router) {
	session := h.middleware.NewSessionMiddleware

	srv.Get("/get-settings", session, h.GetSettings)
	srv.Get("/get-avatar", session, h.GetAvatar)
	srv.Post("/upload-avatar", session, h.UploadAvatar)
	srv.Post("/save-bot-settings", session, h.UpdateName)
	srv.Post("/update-name", session, h.UpdateName)
}
