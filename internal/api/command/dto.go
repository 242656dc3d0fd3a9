package command

import (
	"io"
	"time"

	"VoiceAssistant/internal/entity"
)

// AddCommandRequest is built from a multipart form; Audio is the uploaded file body.
type AddCommandRequest struct {
	Text     string
	Filename string
	Audio    io.Reader
}

// DeleteCommandRequest removes by id when set, otherwise by exact text.
type DeleteCommandRequest struct {
	ID   string `json:"id"`
	Text string `json:"text" validate:"required_without=ID"`
}

type ProcessCommandRequest struct {
	Command *string `json:"command" validate:"required"`
}

type CommandResponse struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Audio     string `json:"audio"`
	AudioURL  string `json:"audio_url"`
	CreatedAt string `json:"created_at,omitempty"`
}

type AddCommandResponse struct {
	Message string          `json:"message"`
	Command CommandResponse `json:"command"`
}

type MatchResponse struct {
	Match    bool   `json:"match"`
	Command  string `json:"command,omitempty"`
	Audio    string `json:"audio,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
	Message  string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

const UploadsPath = "/uploads/"

func AssetURL(ref string) string {
	return UploadsPath + ref
}

func NewCommandResponse(cmd entity.Command) CommandResponse {
	resp := CommandResponse{
		ID:       cmd.ID,
		Text:     cmd.Text,
		Audio:    cmd.AudioRef,
		AudioURL: AssetURL(cmd.AudioRef),
	}
	if !cmd.CreatedAt.IsZero() {
		resp.CreatedAt = cmd.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func NewMatchResponse(cmd entity.Command, ok bool) MatchResponse {
	if !ok {
		return MatchResponse{Match: false, Message: "no matching command"}
	}
	return MatchResponse{
		Match:    true,
		Command:  cmd.Text,
		Audio:    cmd.AudioRef,
		AudioURL: AssetURL(cmd.AudioRef),
	}
}
