package settingsService

import (
	"context"
	"strings"
	"unicode/utf8"

	"VoiceAssistant/internal/api/settings"
	"VoiceAssistant/internal/entity"
	contextPkg "VoiceAssistant/pkg/context"

	"github.com/sirupsen/logrus"
)

func (s *settingsService) withDefaults(st entity.Settings) entity.Settings {
	if st.Name == "" {
		st.Name = s.defaultName
	}
	if st.Avatar == "" {
		st.Avatar = entity.DefaultAvatar
	}
	return st
}

func (s *settingsService) GetSettings(ctx context.Context, scope string) (entity.Settings, error) {
	repo, err := s.settingsRepo.NewClient(ctx, scope, false)
	if err != nil {
		return entity.Settings{}, err
	}

	current, _, err := repo.Settings.GetSettings(ctx)
	if err != nil {
		return entity.Settings{}, settings.ErrLoadSettings
	}

	return s.withDefaults(current), nil
}

func (s *settingsService) UpdateName(ctx context.Context, scope string, name string) (entity.Settings, error) {
	requestID := contextPkg.GetRequestID(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Settings{}, settings.ErrMissingName
	}
	if utf8.RuneCountInString(name) > settings.MaxNameLength {
		return entity.Settings{}, settings.ErrNameTooLong
	}

	repo, err := s.settingsRepo.NewClient(ctx, scope, true)
	if err != nil {
		return entity.Settings{}, err
	}
	defer repo.Rollback()

	current, _, err := repo.Settings.GetSettings(ctx)
	if err != nil {
		return entity.Settings{}, settings.ErrLoadSettings
	}

	current = s.withDefaults(current)
	current.Name = name

	if err := repo.Settings.SaveSettings(ctx, current); err != nil {
		return entity.Settings{}, settings.ErrSaveSettings
	}
	if err := repo.Commit(); err != nil {
		return entity.Settings{}, settings.ErrSaveSettings
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"scope":      scope,
		"name":       name,
	}).Info("Assistant name updated")

	return current, nil
}

// UpdateAvatar stores the new image before touching settings. The previous
// custom avatar is removed best effort; the new one is removed if persisting fails.
func (s *settingsService) UpdateAvatar(ctx context.Context, scope string, req settings.UploadAvatarRequest) (entity.Settings, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Image == nil || req.Filename == "" {
		return entity.Settings{}, settings.ErrMissingAvatar
	}

	ref, err := s.imageStore.Save(ctx, scope, req.Image, req.Filename)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
			"filename":   req.Filename,
			"error":      err.Error(),
		}).Warn("Failed to store avatar")
		return entity.Settings{}, err
	}

	repo, err := s.settingsRepo.NewClient(ctx, scope, true)
	if err != nil {
		s.discardImage(ctx, scope, ref)
		return entity.Settings{}, err
	}
	defer repo.Rollback()

	current, _, err := repo.Settings.GetSettings(ctx)
	if err != nil {
		s.discardImage(ctx, scope, ref)
		return entity.Settings{}, settings.ErrLoadSettings
	}
	current = s.withDefaults(current)
	previous := current

	current.Avatar = ref
	if err := repo.Settings.SaveSettings(ctx, current); err != nil {
		s.discardImage(ctx, scope, ref)
		return entity.Settings{}, settings.ErrSaveSettings
	}
	if err := repo.Commit(); err != nil {
		return entity.Settings{}, settings.ErrSaveSettings
	}

	if previous.HasCustomAvatar() {
		s.discardImage(ctx, scope, previous.Avatar)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"scope":      scope,
		"avatar":     ref,
	}).Info("Avatar updated")

	return current, nil
}

func (s *settingsService) discardImage(ctx context.Context, scope, ref string) {
	if err := s.imageStore.Remove(ctx, scope, ref); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"scope":      scope,
			"avatar":     ref,
			"error":      err.Error(),
		}).Warn("Failed to remove avatar file")
	}
}
