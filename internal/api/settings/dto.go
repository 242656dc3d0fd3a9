package settings

import (
	"io"

	"VoiceAssistant/internal/entity"
)

const (
	MaxNameLength = 20

	UploadsPath       = "/uploads/"
	DefaultAvatarPath = "/static/images/" + entity.DefaultAvatar
)

type UpdateNameRequest struct {
	Name *string `json:"name" validate:"required"`
}

// UploadAvatarRequest is built from a multipart form; Image is the uploaded file body.
type UploadAvatarRequest struct {
	Filename string
	Image    io.Reader
}

type SettingsResponse struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	AvatarURL string `json:"avatar_url"`
}

type AvatarResponse struct {
	Message   string `json:"message,omitempty"`
	AvatarURL string `json:"avatar_url"`
}

func AvatarURL(s entity.Settings) string {
	if !s.HasCustomAvatar() {
		return DefaultAvatarPath
	}
	return UploadsPath + s.Avatar
}

func NewSettingsResponse(s entity.Settings) SettingsResponse {
	return SettingsResponse{
		Name:      s.Name,
		Avatar:    s.Avatar,
		AvatarURL: AvatarURL(s),
	}
}
