package settingsHandler

import (
	"errors"

	"VoiceAssistant/internal/api/settings"
	contextPkg "VoiceAssistant/pkg/context"
	"VoiceAssistant/pkg/handlerUtil"
	"VoiceAssistant/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *SettingsHandler) GetSettings(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, settings.ErrSessionRequired, ctx.Path(), "get_settings")
	}

	current, err := h.settingsService.GetSettings(c, scope)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_settings")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, settings.NewSettingsResponse(current))
	}
}

func (h *SettingsHandler) GetAvatar(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, settings.ErrSessionRequired, ctx.Path(), "get_avatar")
	}

	current, err := h.settingsService.GetSettings(c, scope)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_avatar")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, settings.AvatarResponse{
			AvatarURL: settings.AvatarURL(current),
		})
	}
}

func (h *SettingsHandler) UploadAvatar(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing avatar upload request")

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, settings.ErrSessionRequired, ctx.Path(), "upload_avatar")
	}

	var req settings.UploadAvatarRequest

	avatarFile, err := ctx.FormFile("avatar")
	if err == nil && avatarFile.Filename != "" {
		file, err := avatarFile.Open()
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "upload_avatar")
		}
		defer file.Close()

		req.Filename = avatarFile.Filename
		req.Image = file
	}

	updated, err := h.settingsService.UpdateAvatar(c, scope, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "upload_avatar")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, settings.AvatarResponse{
			Message:   "Avatar updated successfully",
			AvatarURL: settings.AvatarURL(updated),
		})
	}
}

func (h *SettingsHandler) UpdateName(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, settings.ErrSessionRequired, ctx.Path(), "update_name")
	}

	var req settings.UpdateNameRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("invalid request body"), ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.Handle(ctx, requestID, settings.ErrMissingName, ctx.Path(), "update_name")
	}

	updated, err := h.settingsService.UpdateName(c, scope, *req.Name)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_name")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, settings.NewSettingsResponse(updated))
	}
}
