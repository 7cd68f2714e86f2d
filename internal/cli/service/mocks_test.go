package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dsaps/internal/cli/model"
	crepo "dsaps/internal/cli/repo"
)

// --- Моки ---
type mockPoster struct{ mock.Mock }

func (m *mockPoster) PostItemToCollection(ctx context.Context, collectionID string, item *model.Item) (string, error) {
	args := m.Called(ctx, collectionID, item)
	return args.String(0), args.Error(1)
}
func (m *mockPoster) UploadBitstream(ctx context.Context, itemID string, bs model.Bitstream) (string, error) {
	args := m.Called(ctx, itemID, bs)
	return args.String(0), args.Error(1)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) Record(e model.IngestEntry) (string, error) {
	args := m.Called(e)
	return args.String(0), args.Error(1)
}
func (m *mockLedger) FindPosted(collectionUUID, fileIdentifier string) (*model.IngestEntry, error) {
	args := m.Called(collectionUUID, fileIdentifier)
	if v, ok := args.Get(0).(*model.IngestEntry); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLedger) List(collectionUUID string) ([]model.IngestEntry, error) {
	args := m.Called(collectionUUID)
	if v, ok := args.Get(0).([]model.IngestEntry); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Save(s model.Session) error { return m.Called(s).Error(0) }
func (m *mockStore) Load() (model.Session, error) {
	args := m.Called()
	return args.Get(0).(model.Session), args.Error(1)
}
func (m *mockStore) Clear() error { return m.Called().Error(0) }

type mockSessionClient struct{ mock.Mock }

func (m *mockSessionClient) Authenticate(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}
func (m *mockSessionClient) Logout(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockSessionClient) SessionID() string               { return m.Called().String(0) }
func (m *mockSessionClient) UserFullName() string            { return m.Called().String(0) }
func (m *mockSessionClient) BaseURL() string                 { return m.Called().String(0) }

var (
	_ Poster                 = (*mockPoster)(nil)
	_ crepo.LedgerRepository = (*mockLedger)(nil)
	_ crepo.SessionStore     = (*mockStore)(nil)
	_ SessionClient          = (*mockSessionClient)(nil)
)
