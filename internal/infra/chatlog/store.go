package chatlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cazehq/bizcon/internal/entity"
)

// FileStore keeps one transcript file per lead ID, as an ordered JSON array
// of {role, message} records. The file is rewritten wholesale after every
// turn.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create transcript dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(leadID string) string {
	return filepath.Join(s.dir, leadID+".json")
}

func (s *FileStore) Load(leadID string) ([]entity.Message, error) {
	raw, err := os.ReadFile(s.path(leadID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript for %s: %w", leadID, err)
	}

	var messages []entity.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("corrupt transcript for %s: %w", leadID, err)
	}
	return messages, nil
}

func (s *FileStore) Save(leadID string, messages []entity.Message) error {
	if messages == nil {
		messages = []entity.Message{}
	}
	raw, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path(leadID) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write transcript for %s: %w", leadID, err)
	}
	return os.Rename(tmp, s.path(leadID))
}
