package commandHandler

import (
	"bytes"
	"time"

	"VoiceAssistant/internal/api/command"
	contextPkg "VoiceAssistant/pkg/context"
	"VoiceAssistant/pkg/handlerUtil"
	"VoiceAssistant/pkg/response"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	socketReadTimeout  = 5 * time.Minute
	socketWriteTimeout = 10 * time.Second
)

// handleCommandSocket matches every text frame against the session's
// commands and replies with the same body /process-command returns.
func (h *CommandHandler) handleCommandSocket(conn *websocket.Conn) {
	scope, _ := conn.Locals(contextPkg.ScopeLocalsKey).(string)
	requestID, _ := conn.Locals("X-Request-ID").(string)

	fields := logrus.Fields{
		"request_id": requestID,
		"scope":      scope,
	}
	h.log.WithFields(fields).Info("Command socket connected")
	defer h.log.WithFields(fields).Info("Command socket disconnected")

	base := contextPkg.WithRequestID(context.Background(), requestID)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(socketReadTimeout)); err != nil {
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithFields(fields).WithError(err).Warn("Command socket closed unexpectedly")
			}
			break
		}

		var reply interface{}
		switch {
		case scope == "":
			reply = handlerUtil.ErrorResponse{Error: command.ErrScopeUnavailable.Error()}
		case messageType != websocket.TextMessage:
			reply = handlerUtil.ErrorResponse{Error: command.ErrInvalidSocketFrame.Error()}
		default:
			reply = h.matchFrame(base, scope, message)
		}

		if err := conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout)); err != nil {
			break
		}
		if err := conn.WriteJSON(reply); err != nil {
			h.log.WithFields(fields).WithError(err).Warn("Failed to write socket reply")
			break
		}
	}
}

func (h *CommandHandler) matchFrame(base context.Context, scope string, message []byte) interface{} {
	c, cancel := context.WithTimeout(base, h.timeout)
	defer cancel()

	matched, ok, err := h.commandService.MatchCommand(c, scope, frameText(message))
	if err != nil {
		if _, ok := response.StatusCode(err); ok {
			return handlerUtil.ErrorResponse{Error: err.Error()}
		}
		return handlerUtil.ErrorResponse{Error: "An unexpected error occurred"}
	}
	return command.NewMatchResponse(matched, ok)
}

// frameText accepts either {"command": "..."} or the recognized text itself.
func frameText(message []byte) string {
	trimmed := bytes.TrimSpace(message)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var req command.ProcessCommandRequest
		if err := jsoniter.Unmarshal(trimmed, &req); err == nil && req.Command != nil {
			return *req.Command
		}
	}
	return string(message)
}
