package fs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"dsaps/internal/cli/model"
	"dsaps/internal/cli/repo"
)

// ErrNoSession возвращается, если сохранённой сессии нет.
var ErrNoSession = errors.New("no stored session, run login first")

// SessionFSStore — файловое хранилище DSpace-сессии для CLI.
type SessionFSStore struct{}

var _ repo.SessionStore = SessionFSStore{}

// ConfigDir возвращает (и создаёт) каталог настроек клиента.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "dsaps")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func sessionPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// Save сохраняет сессию в файл.
func (SessionFSStore) Save(s model.Session) error {
	if s.ID == "" {
		return errors.New("empty session id")
	}
	p, err := sessionPath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Load читает сессию из файла.
func (SessionFSStore) Load() (model.Session, error) {
	var s model.Session
	p, err := sessionPath()
	if err != nil {
		return s, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, ErrNoSession
		}
		return s, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, err
	}
	if s.ID == "" {
		return s, ErrNoSession
	}
	return s, nil
}

// Clear удаляет файл сессии. Отсутствие файла не считается ошибкой.
func (SessionFSStore) Clear() error {
	p, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
