package model

import "errors"

// ErrEmptyMetadataKey is returned when a metadata entry has no key.
var ErrEmptyMetadataKey = errors.New("metadata key is empty")

// MetadataEntry — one key/value/language triple. Keys may repeat.
type MetadataEntry struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
}

// Bitstream — file attached to an item.
type Bitstream struct {
	Name     string `json:"name"`
	FilePath string `json:"-"`
}

// Item - DSpace item with ordered metadata and bitstreams.
type Item struct {
	BaseRecord
	Metadata               []MetadataEntry `json:"metadata"`
	Bitstreams             []Bitstream     `json:"-"`
	FileIdentifier         string          `json:"-"` // ключ для поиска файлов, в DSpace не отправляется
	SourceSystemIdentifier string          `json:"-"`
}

// NewItem returns an item with its own empty metadata and bitstream lists.
func NewItem() *Item {
	return &Item{Metadata: []MetadataEntry{}, Bitstreams: []Bitstream{}}
}

func (it *Item) Kind() RecordKind  { return KindItem }
func (it *Item) Base() *BaseRecord { return &it.BaseRecord }

// AddMetadata appends an entry. Repeated keys are kept as separate entries.
func (it *Item) AddMetadata(key, value, language string) error {
	if key == "" {
		return ErrEmptyMetadataKey
	}
	it.Metadata = append(it.Metadata, MetadataEntry{Key: key, Value: value, Language: language})
	return nil
}

// Values returns all metadata values stored under key, in order.
func (it *Item) Values(key string) []string {
	var res []string
	for _, m := range it.Metadata {
		if m.Key == key {
			res = append(res, m.Value)
		}
	}
	return res
}
