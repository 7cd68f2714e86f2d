package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dsaps/internal/cli/api"
	"dsaps/internal/cli/ingest"
	"dsaps/internal/cli/model"
	"dsaps/internal/cli/repo"
)

// Poster — часть api.Client, нужная для загрузки элементов.
type Poster interface {
	PostItemToCollection(ctx context.Context, collectionID string, item *model.Item) (string, error)
	UploadBitstream(ctx context.Context, itemID string, bs model.Bitstream) (string, error)
}

var _ Poster = (*api.Client)(nil)

// IngestResult — итог загрузки коллекции.
type IngestResult struct {
	Posted  int
	Skipped int
}

// IngestService загружает подготовленную коллекцию в DSpace и ведёт журнал.
type IngestService struct {
	remote Poster
	ledger repo.LedgerRepository
	logger *zap.SugaredLogger
}

// NewIngestService конструктор сервиса загрузки. ledger может быть nil.
func NewIngestService(remote Poster, ledger repo.LedgerRepository, logger *zap.SugaredLogger) *IngestService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &IngestService{remote: remote, ledger: ledger, logger: logger}
}

// PrepareCollection строит коллекцию из CSV, карты полей и (опционально) каталога файлов.
func PrepareCollection(csvPath, fieldMapPath, bitstreamDir, ext string) (*model.Collection, error) {
	fm, err := ingest.LoadFieldMap(fieldMapPath)
	if err != nil {
		return nil, err
	}
	rows, err := ingest.ReadRowsFile(csvPath)
	if err != nil {
		return nil, err
	}
	coll, err := ingest.CollectionFromRows(rows, fm)
	if err != nil {
		return nil, err
	}
	if bitstreamDir != "" {
		if err := ingest.AttachBitstreams(coll, bitstreamDir, ext); err != nil {
			return nil, err
		}
	}
	return coll, nil
}

// Ingest posts every item of coll to the collection in order. Items recorded
// as posted by an earlier run are skipped; rows sharing a file identifier
// within this run are all posted. The first failure stops the run.
func (s *IngestService) Ingest(ctx context.Context, collectionID string, coll *model.Collection, onItem func(*model.Item)) (IngestResult, error) {
	var res IngestResult
	if coll == nil {
		return res, fmt.Errorf("nil collection")
	}
	posted, err := s.postedBefore(collectionID, coll.Items)
	if err != nil {
		return res, err
	}
	for _, item := range coll.Items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if prev, ok := posted[item.FileIdentifier]; ok {
			item.UUID = prev.ItemUUID
			item.Handle = prev.Handle
			res.Skipped++
			coll.ItemUUIDs = append(coll.ItemUUIDs, item.UUID)
			s.logger.Infow("Item already posted, skipping", "file_identifier", item.FileIdentifier, "uuid", prev.ItemUUID)
			continue
		}
		if err := s.postItem(ctx, collectionID, item); err != nil {
			s.record(collectionID, item, model.StatusFailed, err)
			return res, err
		}
		s.record(collectionID, item, model.StatusPosted, nil)
		res.Posted++
		coll.ItemUUIDs = append(coll.ItemUUIDs, item.UUID)
		if onItem != nil {
			onItem(item)
		}
	}
	return res, nil
}

// postedBefore читает из журнала загрузки, сделанные до этого прогона.
func (s *IngestService) postedBefore(collectionID string, items []*model.Item) (map[string]*model.IngestEntry, error) {
	posted := map[string]*model.IngestEntry{}
	if s.ledger == nil {
		return posted, nil
	}
	checked := map[string]bool{}
	for _, item := range items {
		id := item.FileIdentifier
		if id == "" || checked[id] {
			continue
		}
		checked[id] = true
		prev, err := s.ledger.FindPosted(collectionID, id)
		if err != nil {
			return nil, fmt.Errorf("ledger lookup: %w", err)
		}
		if prev != nil {
			posted[id] = prev
		}
	}
	return posted, nil
}

func (s *IngestService) postItem(ctx context.Context, collectionID string, item *model.Item) error {
	id, err := s.remote.PostItemToCollection(ctx, collectionID, item)
	if err != nil {
		return fmt.Errorf("post item %s: %w", item.FileIdentifier, err)
	}
	item.UUID = id
	for _, bs := range item.Bitstreams {
		if _, err := s.remote.UploadBitstream(ctx, id, bs); err != nil {
			return fmt.Errorf("upload bitstream %s for item %s: %w", bs.Name, id, err)
		}
	}
	s.logger.Infow("Item posted", "uuid", id, "handle", item.Handle, "bitstreams", len(item.Bitstreams))
	return nil
}

func (s *IngestService) record(collectionID string, item *model.Item, status string, cause error) {
	if s.ledger == nil || item.FileIdentifier == "" {
		return
	}
	e := model.IngestEntry{
		CollectionUUID:         collectionID,
		FileIdentifier:         item.FileIdentifier,
		SourceSystemIdentifier: item.SourceSystemIdentifier,
		ItemUUID:               item.UUID,
		Handle:                 item.Handle,
		Bitstreams:             len(item.Bitstreams),
		Status:                 status,
	}
	if cause != nil {
		e.Error = cause.Error()
	}
	if _, err := s.ledger.Record(e); err != nil {
		// журнал вспомогательный: ошибка записи не прерывает загрузку
		s.logger.Warnw("Ledger record failed", "file_identifier", item.FileIdentifier, "error", err)
	}
}
