package entity

import "errors"

var (
	ErrEmptyCommandText = errors.New("command text must not be empty")
	ErrEmptyAudioRef    = errors.New("command audio reference must not be empty")
)
