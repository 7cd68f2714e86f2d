package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dsaps/internal/config"
	"dsaps/internal/handlers"
	"dsaps/internal/model"
	"dsaps/internal/repo"
	"dsaps/internal/service"
)

const (
	testEmail    = "admin@example.org"
	testPassword = "secret"
	testPrefix   = "1721.1"
)

// stub — поднятый эмулятор DSpace на in-memory SQLite.
type stub struct {
	srv     *httptest.Server
	archive *service.ArchiveService
	cfg     *config.Config
}

func (s *stub) url(path string) string { return s.srv.URL + handlers.APIPrefix + path }

func newStub(t *testing.T, blobMaxMB int) *stub {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{AuthSecret: "test-secret", HandlePrefix: testPrefix, BlobMaxSizeMB: blobMaxMB}
	logger := zap.NewNop().Sugar()

	users := service.NewUserService(repo.NewUserRepository(db))
	_, err = users.EnsureUser(context.Background(), testEmail, testPassword, "Test Admin")
	require.NoError(t, err)
	archive := service.NewArchiveService(repo.NewArchiveRepository(db), cfg.HandlePrefix, int64(blobMaxMB)<<20, logger)

	h := handlers.NewHandler(users, archive, logger, cfg)
	srv := httptest.NewServer(h.Router)
	t.Cleanup(srv.Close)
	return &stub{srv: srv, archive: archive, cfg: cfg}
}

// login возвращает cookie сессии тестового пользователя.
func (s *stub) login(t *testing.T) *http.Cookie {
	t.Helper()
	resp, err := http.Post(s.url("/login?email="+testEmail+"&password="+testPassword), "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "JSESSIONID" {
			return c
		}
	}
	t.Fatalf("no session cookie")
	return nil
}

// seedTree создаёт сообщество и коллекцию напрямую через сервис.
func (s *stub) seedTree(t *testing.T) (*model.Community, *model.Collection) {
	t.Helper()
	ctx := context.Background()
	comm, err := s.archive.CreateCommunity(ctx, "Libraries", "")
	require.NoError(t, err)
	coll, err := s.archive.CreateCollection(ctx, comm.UUID, "Theses")
	require.NoError(t, err)
	return comm, coll
}

func (s *stub) seedItem(t *testing.T, collID string, md ...string) *model.Item {
	t.Helper()
	var values []model.MetadataValue
	for i := 0; i+1 < len(md); i += 2 {
		values = append(values, model.MetadataValue{Key: md[i], Value: md[i+1]})
	}
	it, err := s.archive.CreateItem(context.Background(), collID, values)
	require.NoError(t, err)
	return it
}
