package commandService

import (
	"context"

	"VoiceAssistant/internal/api/command"
	commandRepository "VoiceAssistant/internal/api/command/repository"
	"VoiceAssistant/internal/entity"
	"VoiceAssistant/pkg/storage"
	"VoiceAssistant/pkg/utils"

	"github.com/sirupsen/logrus"
)

type ICommandService interface {
	ListCommands(ctx context.Context, scope string) ([]entity.Command, error)
	AddCommand(ctx context.Context, scope string, req command.AddCommandRequest) (entity.Command, error)
	DeleteCommand(ctx context.Context, scope string, req command.DeleteCommandRequest) (entity.Command, error)

	// MatchCommand reports ok=false when nothing matches; that is not an error.
	MatchCommand(ctx context.Context, scope string, recognizedText string) (entity.Command, bool, error)

	ReadAsset(ctx context.Context, scope string, ref string) ([]byte, error)
}

type commandService struct {
	log         *logrus.Logger
	commandRepo commandRepository.Repository
	audioStore  *storage.AssetStore
	utils       utils.IUtils
}

func NewCommandService(
	log *logrus.Logger,
	commandRepo commandRepository.Repository,
	audioStore *storage.AssetStore,
	utils utils.IUtils,
) ICommandService {
	return &commandService{
		log:         log,
		commandRepo: commandRepo,
		audioStore:  audioStore,
		utils:       utils,
	}
}
