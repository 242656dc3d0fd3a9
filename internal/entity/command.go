package entity

import (
	"strings"
	"time"
)

type Command struct {
	ID        string    `json:"id,omitempty"`
	Text      string    `json:"text"`
	AudioRef  string    `json:"audio"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (c Command) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return ErrEmptyCommandText
	}
	if c.AudioRef == "" {
		return ErrEmptyAudioRef
	}
	return nil
}
