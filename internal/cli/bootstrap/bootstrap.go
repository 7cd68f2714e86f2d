package bootstrap

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"dsaps/internal/cli/api"
	"dsaps/internal/cli/repo"
	fsrepo "dsaps/internal/cli/repo/fs"
	reposqlite "dsaps/internal/cli/repo/sqlite"
	"dsaps/internal/config"
)

// OpenLedger открывает журнал загрузок, выполняет миграции и возвращает
// (repo, cleanup, error). cleanup необходимо вызвать после окончания работы.
func OpenLedger(cfg *config.Config) (repo.LedgerRepository, func() error, error) {
	path := ""
	if cfg != nil {
		path = cfg.ClientDBPath
	}
	if path == "" {
		p, err := reposqlite.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	r, err := reposqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger db: %w", err)
	}
	if err := r.Migrate(); err != nil {
		_ = r.Close()
		return nil, nil, fmt.Errorf("migrate ledger db: %w", err)
	}
	return r, r.Close, nil
}

// HTTPClient строит http.Client по настройкам таймаута и TLS.
func HTTPClient(cfg *config.Config) *http.Client {
	hc := &http.Client{Timeout: cfg.HTTPTimeout}
	if cfg.InsecureSkipVerify {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via flag
		hc.Transport = tr
	}
	return hc
}

// NewClient создаёт клиента DSpace для cfg.DSpaceURL с указанной сессией.
func NewClient(cfg *config.Config, sessionID string, logger *zap.SugaredLogger) *api.Client {
	return api.New(cfg.DSpaceURL,
		api.WithHTTPClient(HTTPClient(cfg)),
		api.WithLogger(logger),
		api.WithSession(sessionID),
	)
}

// OpenClient создаёт клиента из сохранённой сессии. URL берётся из сессии,
// чтобы команды работали с тем же сервером, где выполнен login.
func OpenClient(cfg *config.Config, store repo.SessionStore, logger *zap.SugaredLogger) (*api.Client, error) {
	if store == nil {
		store = fsrepo.SessionFSStore{}
	}
	sess, err := store.Load()
	if err != nil {
		return nil, err
	}
	url := sess.URL
	if url == "" {
		url = cfg.DSpaceURL
	}
	return api.New(url,
		api.WithHTTPClient(HTTPClient(cfg)),
		api.WithLogger(logger),
		api.WithSession(sess.ID),
	), nil
}
