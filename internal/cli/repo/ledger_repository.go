package repo

import "dsaps/internal/cli/model"

// LedgerRepository — порт журнала загрузок (ingest ledger).
type LedgerRepository interface {
	// Record сохраняет запись о попытке загрузки и возвращает её ID.
	Record(e model.IngestEntry) (string, error)

	// FindPosted ищет успешно загруженный элемент по коллекции и file_identifier.
	// Возвращает nil, nil если такой записи нет.
	FindPosted(collectionUUID, fileIdentifier string) (*model.IngestEntry, error)

	// List возвращает записи журнала, опционально отфильтрованные по коллекции.
	List(collectionUUID string) ([]model.IngestEntry, error)
}
