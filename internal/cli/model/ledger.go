package model

// Ingest statuses stored in the ledger.
const (
	StatusPosted = "posted"
	StatusFailed = "failed"
)

// IngestEntry is one row of the local ingest ledger.
type IngestEntry struct {
	ID                     string
	CollectionUUID         string
	FileIdentifier         string
	SourceSystemIdentifier string
	ItemUUID               string
	Handle                 string
	Bitstreams             int
	Status                 string
	Error                  string
	CreatedAt              int64
}
