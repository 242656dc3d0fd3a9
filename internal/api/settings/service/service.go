package settingsService

import (
	"context"

	"VoiceAssistant/internal/api/settings"
	settingsRepository "VoiceAssistant/internal/api/settings/repository"
	"VoiceAssistant/internal/entity"
	"VoiceAssistant/pkg/storage"

	"github.com/sirupsen/logrus"
)

type ISettingsService interface {
	GetSettings(ctx context.Context, scope string) (entity.Settings, error)
	UpdateName(ctx context.Context, scope string, name string) (entity.Settings, error)
	UpdateAvatar(ctx context.Context, scope string, req settings.UploadAvatarRequest) (entity.Settings, error)
}

type settingsService struct {
	log          *logrus.Logger
	settingsRepo settingsRepository.Repository
	imageStore   *storage.AssetStore
	defaultName  string
}

func NewSettingsService(
	log *logrus.Logger,
	settingsRepo settingsRepository.Repository,
	imageStore *storage.AssetStore,
	defaultName string,
) ISettingsService {
	if defaultName == "" {
		defaultName = "Voice Assistant"
	}
	return &settingsService{
		log:          log,
		settingsRepo: settingsRepo,
		imageStore:   imageStore,
		defaultName:  defaultName,
	}
}
