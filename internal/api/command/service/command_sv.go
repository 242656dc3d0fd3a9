package commandService

import (
	"context"
	"strings"
	"time"

	"VoiceAssistant/internal/api/command"
	"VoiceAssistant/internal/entity"
	contextPkg "VoiceAssistant/pkg/context"

	"github.com/sirupsen/logrus"
)

func (s *commandService) ListCommands(ctx context.Context, scope string) ([]entity.Command, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.commandRepo.NewClient(ctx, scope, false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	commands, err := repo.Commands.GetCommands(ctx)
	if err != nil {
		return nil, command.ErrLoadCommands
	}

	return commands, nil
}

func (s *commandService) AddCommand(ctx context.Context, scope string, req command.AddCommandRequest) (entity.Command, error) {
	requestID := contextPkg.GetRequestID(ctx)

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return entity.Command{}, command.ErrMissingText
	}
	if req.Audio == nil || req.Filename == "" {
		return entity.Command{}, command.ErrMissingAudio
	}

	audioRef, err := s.audioStore.Save(ctx, scope, req.Audio, req.Filename)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
			"filename":   req.Filename,
			"error":      err.Error(),
		}).Warn("Failed to store audio file")
		return entity.Command{}, err
	}

	now := time.Now()
	commandID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate command ID")
		s.discardAsset(ctx, scope, audioRef)
		return entity.Command{}, err
	}

	cmd := entity.Command{
		ID:        commandID,
		Text:      text,
		AudioRef:  audioRef,
		CreatedAt: now.UTC(),
	}

	repo, err := s.commandRepo.NewClient(ctx, scope, true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		s.discardAsset(ctx, scope, audioRef)
		return entity.Command{}, err
	}
	defer repo.Rollback()

	if err := repo.Commands.AppendCommand(ctx, cmd); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
			"error":      err.Error(),
		}).Error("Failed to append command")
		s.discardAsset(ctx, scope, audioRef)
		return entity.Command{}, command.ErrSaveCommand
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit command")
		return entity.Command{}, command.ErrSaveCommand
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"scope":      scope,
		"command_id": cmd.ID,
		"audio":      cmd.AudioRef,
	}).Info("Command added")

	return cmd, nil
}

func (s *commandService) DeleteCommand(ctx context.Context, scope string, req command.DeleteCommandRequest) (entity.Command, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.ID == "" && req.Text == "" {
		return entity.Command{}, command.ErrMissingDeleteKey
	}

	repo, err := s.commandRepo.NewClient(ctx, scope, true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Command{}, err
	}
	defer repo.Rollback()

	removed, ok, err := repo.Commands.DeleteFirstMatch(ctx, req.ID, req.Text)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
			"error":      err.Error(),
		}).Error("Failed to delete command")
		return entity.Command{}, command.ErrSaveCommand
	}
	if !ok {
		return entity.Command{}, command.ErrCommandNotFound
	}

	if err := repo.Commit(); err != nil {
		return entity.Command{}, command.ErrSaveCommand
	}

	s.discardAsset(ctx, scope, removed.AudioRef)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"scope":      scope,
		"command_id": removed.ID,
		"text":       removed.Text,
	}).Info("Command deleted")

	return removed, nil
}

// discardAsset removes an audio file without failing the caller.
func (s *commandService) discardAsset(ctx context.Context, scope, ref string) {
	if ref == "" {
		return
	}
	if err := s.audioStore.Remove(ctx, scope, ref); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"scope":      scope,
			"audio":      ref,
			"error":      err.Error(),
		}).Warn("Failed to remove audio file")
	}
}
