package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"dsaps/internal/cli/model"
	"dsaps/internal/cli/repo"
)

// LedgerRepositorySQLite — журнал загрузок в локальной БД SQLite.
type LedgerRepositorySQLite struct {
	db *sql.DB
}

var _ repo.LedgerRepository = (*LedgerRepositorySQLite)(nil)

// DefaultPath возвращает путь к БД журнала по умолчанию:
// <UserConfigDir>/dsaps/ledger.sqlite.
func DefaultPath() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "dsaps", "ledger.sqlite"), nil
}

// Open открывает (и создаёт при необходимости) файл БД журнала.
func Open(dbPath string) (*LedgerRepositorySQLite, error) {
	if dbPath == "" {
		return nil, errors.New("empty ledger db path")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &LedgerRepositorySQLite{db: db}, nil
}

// Close закрывает соединение с БД.
func (r *LedgerRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц/индексов.
func (r *LedgerRepositorySQLite) Migrate() error {
	_, err := r.db.Exec(initialDDL())
	return err
}

// Record добавляет запись в журнал.
func (r *LedgerRepositorySQLite) Record(e model.IngestEntry) (string, error) {
	if e.CollectionUUID == "" || e.FileIdentifier == "" {
		return "", errors.New("collection uuid and file identifier are required")
	}
	if e.Status == "" {
		e.Status = model.StatusPosted
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err := r.db.Exec(`INSERT INTO ingest_ledger(
        id, collection_uuid, file_identifier, source_system_identifier,
        item_uuid, handle, bitstreams, status, error, created_at
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CollectionUUID, e.FileIdentifier, e.SourceSystemIdentifier,
		e.ItemUUID, e.Handle, e.Bitstreams, e.Status, e.Error, e.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

const selectCols = `SELECT id, collection_uuid, file_identifier, source_system_identifier,
     item_uuid, handle, bitstreams, status, error, created_at FROM ingest_ledger`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (model.IngestEntry, error) {
	var e model.IngestEntry
	err := s.Scan(&e.ID, &e.CollectionUUID, &e.FileIdentifier, &e.SourceSystemIdentifier,
		&e.ItemUUID, &e.Handle, &e.Bitstreams, &e.Status, &e.Error, &e.CreatedAt)
	return e, err
}

// FindPosted возвращает последнюю успешную загрузку или nil.
func (r *LedgerRepositorySQLite) FindPosted(collectionUUID, fileIdentifier string) (*model.IngestEntry, error) {
	row := r.db.QueryRow(selectCols+`
   WHERE collection_uuid = ? AND file_identifier = ? AND status = ?
   ORDER BY created_at DESC LIMIT 1`, collectionUUID, fileIdentifier, model.StatusPosted)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// List возвращает записи журнала (сначала старые); пустой collectionUUID — все записи.
func (r *LedgerRepositorySQLite) List(collectionUUID string) ([]model.IngestEntry, error) {
	q := selectCols
	var args []any
	if collectionUUID != "" {
		q += ` WHERE collection_uuid = ?`
		args = append(args, collectionUUID)
	}
	q += ` ORDER BY created_at ASC, rowid ASC`
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []model.IngestEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
