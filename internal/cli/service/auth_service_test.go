package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dsaps/internal/cli/api"
	"dsaps/internal/cli/model"
)

func factoryFor(c SessionClient, gotSession *string) ClientFactory {
	return func(id string) SessionClient {
		if gotSession != nil {
			*gotSession = id
		}
		return c
	}
}

func TestAuthService_Login_SavesSession(t *testing.T) {
	c := new(mockSessionClient)
	c.On("Authenticate", mock.Anything, "a@b.c", "pw").Return(nil).Once()
	c.On("SessionID").Return("sess-1")
	c.On("UserFullName").Return("Ann Lee")
	c.On("BaseURL").Return("https://dspace.example/rest")

	st := new(mockStore)
	want := model.Session{URL: "https://dspace.example/rest", ID: "sess-1", Email: "a@b.c", FullName: "Ann Lee"}
	st.On("Save", want).Return(nil).Once()

	got, err := NewAuthService(st, factoryFor(c, nil)).Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	c.AssertExpectations(t)
	st.AssertExpectations(t)
}

func TestAuthService_Login_Errors(t *testing.T) {
	ctx := context.Background()
	st := new(mockStore)

	_, err := NewAuthService(st, factoryFor(new(mockSessionClient), nil)).Login(ctx, "", "pw")
	assert.Error(t, err)

	c := new(mockSessionClient)
	c.On("Authenticate", mock.Anything, "a@b.c", "bad").
		Return(&api.StatusError{Method: http.MethodPost, StatusCode: http.StatusUnauthorized}).Once()
	_, err = NewAuthService(st, factoryFor(c, nil)).Login(ctx, "a@b.c", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	c = new(mockSessionClient)
	c.On("Authenticate", mock.Anything, "a@b.c", "pw").Return(errors.New("dial tcp")).Once()
	_, err = NewAuthService(st, factoryFor(c, nil)).Login(ctx, "a@b.c", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	st.AssertNotCalled(t, "Save", mock.Anything)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	c := new(mockSessionClient)
	c.On("Logout", mock.Anything).Return(nil).Once()
	st := new(mockStore)
	st.On("Load").Return(model.Session{ID: "sess-9"}, nil).Once()
	st.On("Clear").Return(nil).Once()
	var used string
	require.NoError(t, NewAuthService(st, factoryFor(c, &used)).Logout(ctx))
	assert.Equal(t, "sess-9", used)
	st.AssertExpectations(t)

	// серверная ошибка не мешает очистке локальной сессии
	c = new(mockSessionClient)
	c.On("Logout", mock.Anything).Return(errors.New("expired")).Once()
	st = new(mockStore)
	st.On("Load").Return(model.Session{ID: "sess-9"}, nil).Once()
	st.On("Clear").Return(nil).Once()
	assert.Error(t, NewAuthService(st, factoryFor(c, nil)).Logout(ctx))
	st.AssertExpectations(t)

	st = new(mockStore)
	st.On("Load").Return(model.Session{}, errors.New("no session")).Once()
	assert.Error(t, NewAuthService(st, factoryFor(c, nil)).Logout(ctx))
}

func TestAuthService_CurrentUser(t *testing.T) {
	st := new(mockStore)
	st.On("Load").Return(model.Session{ID: "x", Email: "e"}, nil).Once()
	s, err := NewAuthService(st, nil).CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "e", s.Email)
}
