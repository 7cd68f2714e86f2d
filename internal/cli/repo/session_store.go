package repo

import "dsaps/internal/cli/model"

// SessionStore описывает хранилище DSpace-сессии на клиенте.
type SessionStore interface {
	Save(s model.Session) error
	Load() (model.Session, error)
	Clear() error
}
