package commandService

import (
	"context"

	"VoiceAssistant/internal/entity"
	contextPkg "VoiceAssistant/pkg/context"
	"VoiceAssistant/pkg/matcher"

	"github.com/sirupsen/logrus"
)

func (s *commandService) MatchCommand(ctx context.Context, scope string, recognizedText string) (entity.Command, bool, error) {
	requestID := contextPkg.GetRequestID(ctx)

	commands, err := s.ListCommands(ctx, scope)
	if err != nil {
		return entity.Command{}, false, err
	}

	// A returned match must point at an audio file that still exists.
	hasAudio := func(cmd entity.Command) bool {
		exists, err := s.audioStore.Exists(ctx, scope, cmd.AudioRef)
		if err != nil || !exists {
			fields := logrus.Fields{
				"request_id": requestID,
				"scope":      scope,
				"command_id": cmd.ID,
				"audio":      cmd.AudioRef,
			}
			if err != nil {
				fields["error"] = err.Error()
			}
			s.log.WithFields(fields).Warn("Skipping matched command without audio")
			return false
		}
		return true
	}

	cmd, ok := matcher.MatchFunc(commands, recognizedText, hasAudio)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"scope":      scope,
		"input":      recognizedText,
		"matched":    ok,
		"command_id": cmd.ID,
	}).Debug("Processed recognized text")

	return cmd, ok, nil
}

func (s *commandService) ReadAsset(ctx context.Context, scope string, ref string) ([]byte, error) {
	data, err := s.audioStore.Read(ctx, scope, ref)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"scope":      scope,
			"ref":        ref,
			"error":      err.Error(),
		}).Warn("Failed to read asset")
		return nil, err
	}
	return data, nil
}
