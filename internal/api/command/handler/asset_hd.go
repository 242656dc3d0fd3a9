package commandHandler

import (
	"net/url"

	"VoiceAssistant/internal/api/command"
	contextPkg "VoiceAssistant/pkg/context"
	"VoiceAssistant/pkg/handlerUtil"
	"VoiceAssistant/pkg/storage"
	"VoiceAssistant/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// ServeAsset streams a stored audio or avatar file of the caller's scope.
func (h *CommandHandler) ServeAsset(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	scope := h.middleware.GetScope(ctx)
	if scope == "" {
		return errHandler.Handle(ctx, requestID, command.ErrScopeUnavailable, ctx.Path(), "serve_asset")
	}

	ref, err := url.PathUnescape(ctx.Params("*"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, storage.ErrInvalidPath, ctx.Path(), "serve_asset")
	}
	if err := storage.ValidateRef(ref); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "serve_asset")
	}

	data, err := h.commandService.ReadAsset(c, scope, ref)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "serve_asset")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		ctx.Type(utils.FileExtension(ref))
		return ctx.Status(fiber.StatusOK).Send(data)
	}
}
