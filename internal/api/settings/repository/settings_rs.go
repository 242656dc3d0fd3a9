package settingsRepository

import (
	"context"
	"path"

	"VoiceAssistant/internal/entity"
	contextPkg "VoiceAssistant/pkg/context"

	"github.com/sirupsen/logrus"
)

// SettingsDocument is settings.json. Older files stored bot_name and a full
// avatar_url; only the current keys are written back.
type SettingsDocument struct {
	Name      string `json:"name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	BotName   string `json:"bot_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (d SettingsDocument) ToEntity() entity.Settings {
	s := entity.Settings{
		Name:   d.Name,
		Avatar: d.Avatar,
	}
	if s.Name == "" {
		s.Name = d.BotName
	}
	if s.Avatar == "" && d.AvatarURL != "" {
		s.Avatar = path.Base(d.AvatarURL)
	}
	return s
}

func NewSettingsDocument(s entity.Settings) SettingsDocument {
	return SettingsDocument{
		Name:   s.Name,
		Avatar: s.Avatar,
	}
}

func (r *settingsRepository) GetSettings(ctx context.Context) (entity.Settings, bool, error) {
	var doc SettingsDocument
	found, err := r.docs.Read(r.scope, documentName, &doc)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"scope":      r.scope,
			"error":      err.Error(),
		}).Error("Failed to read settings document")
		return entity.Settings{}, false, err
	}
	if !found {
		return entity.Settings{}, false, nil
	}
	return doc.ToEntity(), true, nil
}

func (r *settingsRepository) SaveSettings(ctx context.Context, s entity.Settings) error {
	if err := r.docs.Write(r.scope, documentName, NewSettingsDocument(s)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"scope":      r.scope,
			"error":      err.Error(),
		}).Error("Failed to write settings document")
		return err
	}
	return nil
}
