package commandHandler

import (
	"errors"

	"VoiceAssistant/internal/api/command"
	contextPkg "VoiceAssistant/pkg/context"
	"VoiceAssistant/pkg/handlerUtil"
	"VoiceAssistant/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *CommandHandler) ListCommands(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, command.ErrScopeUnavailable, ctx.Path(), "list_commands")
	}

	commands, err := h.commandService.ListCommands(c, scope)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_commands")
	}

	res := make([]command.CommandResponse, 0, len(commands))
	for _, cmd := range commands {
		res = append(res, command.NewCommandResponse(cmd))
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *CommandHandler) AddCommand(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing add command request")

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, command.ErrScopeUnavailable, ctx.Path(), "add_command")
	}

	req := command.AddCommandRequest{
		Text: ctx.FormValue("text"),
	}
	if req.Text == "" {
		req.Text = ctx.FormValue("command")
	}

	audioFile, err := ctx.FormFile("audio")
	if err == nil && audioFile.Filename != "" {
		file, err := audioFile.Open()
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "add_command")
		}
		defer file.Close()

		req.Filename = audioFile.Filename
		req.Audio = file
	}

	created, err := h.commandService.AddCommand(c, scope, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "add_command")
	}

	res := command.AddCommandResponse{
		Message: "Command added successfully",
		Command: command.NewCommandResponse(created),
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *CommandHandler) DeleteCommand(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	var req command.DeleteCommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return handlerUtil.New(h.log).HandleValidationError(ctx, requestID, errors.New("invalid request body"), ctx.Path())
	}

	return h.deleteCommand(ctx, req)
}

func (h *CommandHandler) DeleteCommandByID(ctx *fiber.Ctx) error {
	return h.deleteCommand(ctx, command.DeleteCommandRequest{ID: ctx.Params("id")})
}

func (h *CommandHandler) deleteCommand(ctx *fiber.Ctx, req command.DeleteCommandRequest) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, command.ErrScopeUnavailable, ctx.Path(), "delete_command")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.Handle(ctx, requestID, command.ErrMissingDeleteKey, ctx.Path(), "delete_command")
	}

	if _, err := h.commandService.DeleteCommand(c, scope, req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_command")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, command.MessageResponse{
			Message: "Command deleted successfully",
		})
	}
}

func (h *CommandHandler) ProcessCommand(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, command.ErrScopeUnavailable, ctx.Path(), "process_command")
	}

	var req command.ProcessCommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("invalid request body"), ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.Handle(ctx, requestID, command.ErrMissingRecognized, ctx.Path(), "process_command")
	}

	matched, ok, err := h.commandService.MatchCommand(c, scope, *req.Command)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_command")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, command.NewMatchResponse(matched, ok))
	}
}
