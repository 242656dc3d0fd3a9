package command

import "VoiceAssistant/pkg/response"

var (
	ErrCommandNotFound    = response.NewError(404, "command not found")
	ErrMissingText        = response.NewError(400, "command text is required")
	ErrMissingAudio       = response.NewError(400, "audio file is required")
	ErrMissingDeleteKey   = response.NewError(400, "command text or id is required")
	ErrMissingRecognized  = response.NewError(400, "recognized command text is required")
	ErrSaveCommand        = response.NewError(500, "failed to save command")
	ErrLoadCommands       = response.NewError(500, "failed to load commands")
	ErrScopeUnavailable   = response.NewError(401, "session is not available")
	ErrInvalidSocketFrame = response.NewError(400, "invalid message")
)
