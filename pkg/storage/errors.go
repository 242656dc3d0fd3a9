package storage

import "VoiceAssistant/pkg/response"

var (
	ErrMissingFile       = response.NewError(400, "no file selected")
	ErrUnsupportedFormat = response.NewError(400, "unsupported file format")
	ErrFileTooLarge      = response.NewError(400, "file too large")
	ErrInvalidPath       = response.NewError(400, "invalid file path")
	ErrAssetNotFound     = response.NewError(404, "file not found")
)
