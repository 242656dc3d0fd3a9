package commandHandler

import (
	"time"

	commandService "VoiceAssistant/internal/api/command/service"
	"VoiceAssistant/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type CommandHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	commandService commandService.ICommandService
	timeout        time.Duration
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs commandService.ICommandService,
	timeout time.Duration,
) *CommandHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CommandHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		commandService: cs,
		timeout:        timeout,
	}
}

func (h *CommandHandler) Start(srv fiber.Router) {
	session := h.middleware.NewSessionMiddleware

	srv.Get("/get-commands", session, h.ListCommands)
	srv.Get("/list-commands", session, h.ListCommands)
	srv.Post("/add-command", session, h.AddCommand)
	srv.Post("/upload-command", session, h.AddCommand)
	srv.Post("/delete-command", session, h.DeleteCommand)
	srv.Delete("/delete-command/:id", session, h.DeleteCommandByID)
	srv.Post("/process-command", session, h.ProcessCommand)

	srv.Get("/uploads/*", session, h.ServeAsset)

	srv.Use("/ws/commands", h.middleware.NewWebSocketUpgrade, session)
	srv.Get("/ws/commands", websocket.New(h.handleCommandSocket))
}
