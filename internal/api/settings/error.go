package settings

import "VoiceAssistant/pkg/response"

var (
	ErrMissingName     = response.NewError(400, "name is required")
	ErrNameTooLong     = response.NewError(400, "name must be at most 20 characters")
	ErrMissingAvatar   = response.NewError(400, "avatar file is required")
	ErrLoadSettings    = response.NewError(500, "failed to load settings")
	ErrSaveSettings    = response.NewError(500, "failed to save settings")
	ErrSessionRequired = response.NewError(401, "session is not available")
)
