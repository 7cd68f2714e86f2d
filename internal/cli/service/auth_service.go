package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dsaps/internal/cli/api"
	"dsaps/internal/cli/model"
	"dsaps/internal/cli/repo"
)

// ErrInvalidCredentials возвращается, если DSpace отклонил email/пароль.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService описывает юзкейс-уровень аутентификации для CLI.
type AuthService interface {
	// Login открывает сессию DSpace и сохраняет её локально.
	Login(ctx context.Context, email, password string) (model.Session, error)

	// Logout закрывает серверную сессию и очищает локальный контекст.
	Logout(ctx context.Context) error

	// CurrentUser возвращает сохранённую сессию, если она есть.
	CurrentUser() (model.Session, error)
}

// SessionClient — часть api.Client, нужная для входа/выхода.
type SessionClient interface {
	Authenticate(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	SessionID() string
	UserFullName() string
	BaseURL() string
}

var _ SessionClient = (*api.Client)(nil)

// ClientFactory создаёт клиента для указанной сессии ("" — без сессии).
type ClientFactory func(sessionID string) SessionClient

// AuthServiceDSpace — реализация AuthService поверх DSpace REST.
type AuthServiceDSpace struct {
	store     repo.SessionStore
	newClient ClientFactory
}

// NewAuthService конструктор сервиса аутентификации.
func NewAuthService(store repo.SessionStore, newClient ClientFactory) AuthService {
	return &AuthServiceDSpace{store: store, newClient: newClient}
}

// Login аутентифицирует пользователя и сохраняет сессию.
func (s *AuthServiceDSpace) Login(ctx context.Context, email, password string) (model.Session, error) {
	if email == "" || password == "" {
		return model.Session{}, errors.New("email and password are required")
	}
	c := s.newClient("")
	if err := c.Authenticate(ctx, email, password); err != nil {
		var se *api.StatusError
		if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
			return model.Session{}, ErrInvalidCredentials
		}
		return model.Session{}, err
	}
	sess := model.Session{
		URL:      c.BaseURL(),
		ID:       c.SessionID(),
		Email:    email,
		FullName: c.UserFullName(),
	}
	if err := s.store.Save(sess); err != nil {
		return model.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Logout завершает сессию. Локальная сессия очищается даже при ошибке сервера.
func (s *AuthServiceDSpace) Logout(ctx context.Context) error {
	sess, err := s.store.Load()
	if err != nil {
		return err
	}
	remoteErr := s.newClient(sess.ID).Logout(ctx)
	if err := s.store.Clear(); err != nil {
		return err
	}
	if remoteErr != nil {
		return fmt.Errorf("server logout: %w", remoteErr)
	}
	return nil
}

// CurrentUser возвращает сохранённую сессию.
func (s *AuthServiceDSpace) CurrentUser() (model.Session, error) {
	return s.store.Load()
}
