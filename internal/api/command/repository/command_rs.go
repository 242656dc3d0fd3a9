package commandRepository

import (
	"context"
	"fmt"
	"time"

	"VoiceAssistant/internal/entity"
	contextPkg "VoiceAssistant/pkg/context"

	"github.com/sirupsen/logrus"
)

// CommandDocument is one entry of commands.json. Older files used fileName
// and timestamp; they are read here and written back in the current shape.
type CommandDocument struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Audio     string `json:"audio,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseTime(value string) time.Time {
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (d CommandDocument) ToEntity() entity.Command {
	audio := d.Audio
	if audio == "" {
		audio = d.FileName
	}

	created := d.CreatedAt
	if created == "" {
		created = d.Timestamp
	}

	cmd := entity.Command{
		ID:       d.ID,
		Text:     d.Text,
		AudioRef: audio,
	}
	if created != "" {
		cmd.CreatedAt = parseTime(created)
	}
	return cmd
}

func NewCommandDocument(cmd entity.Command) CommandDocument {
	doc := CommandDocument{
		ID:    cmd.ID,
		Text:  cmd.Text,
		Audio: cmd.AudioRef,
	}
	if !cmd.CreatedAt.IsZero() {
		doc.CreatedAt = cmd.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return doc
}

func (r *commandRepository) load(ctx context.Context) ([]entity.Command, error) {
	var docs []CommandDocument
	if _, err := r.docs.Read(r.scope, documentName, &docs); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"scope":      r.scope,
			"error":      err.Error(),
		}).Error("Failed to read commands document")
		return nil, err
	}

	commands := make([]entity.Command, 0, len(docs))
	for _, d := range docs {
		commands = append(commands, d.ToEntity())
	}
	return commands, nil
}

func (r *commandRepository) store(ctx context.Context, commands []entity.Command) error {
	docs := make([]CommandDocument, 0, len(commands))
	for _, c := range commands {
		docs = append(docs, NewCommandDocument(c))
	}

	if err := r.docs.Write(r.scope, documentName, docs); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"scope":      r.scope,
			"error":      err.Error(),
		}).Error("Failed to write commands document")
		return err
	}
	return nil
}

func (r *commandRepository) GetCommands(ctx context.Context) ([]entity.Command, error) {
	return r.load(ctx)
}

func (r *commandRepository) AppendCommand(ctx context.Context, cmd entity.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	commands, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("append command: %w", err)
	}

	commands = append(commands, cmd)

	if err := r.store(ctx, commands); err != nil {
		return fmt.Errorf("append command: %w", err)
	}
	return nil
}

func (r *commandRepository) DeleteFirstMatch(ctx context.Context, id, text string) (entity.Command, bool, error) {
	commands, err := r.load(ctx)
	if err != nil {
		return entity.Command{}, false, fmt.Errorf("delete command: %w", err)
	}

	idx := -1
	for i, c := range commands {
		if id != "" {
			if c.ID == id {
				idx = i
				break
			}
			continue
		}
		if c.Text == text {
			idx = i
			break
		}
	}
	if idx < 0 {
		return entity.Command{}, false, nil
	}

	removed := commands[idx]
	commands = append(commands[:idx], commands[idx+1:]...)

	if err := r.store(ctx, commands); err != nil {
		return entity.Command{}, false, fmt.Errorf("delete command: %w", err)
	}
	return removed, true, nil
}
