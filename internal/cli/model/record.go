package model

import (
	"errors"
	"fmt"
)

// ErrUnsupportedKind is returned for a record type outside of RecordKind.
var ErrUnsupportedKind = errors.New("unsupported record type")

// RecordKind is the DSpace object collection segment used in /{kind}/{uuid}.
type RecordKind string

const (
	KindItem       RecordKind = "items"
	KindCommunity  RecordKind = "communities"
	KindCollection RecordKind = "collections"
)

// Kinds returns all supported record kinds.
func Kinds() []RecordKind {
	return []RecordKind{KindItem, KindCommunity, KindCollection}
}

// ParseRecordKind converts a user or API supplied tag to a RecordKind.
func ParseRecordKind(s string) (RecordKind, error) {
	k := RecordKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the supported kinds.
func (k RecordKind) Valid() bool {
	switch k {
	case KindItem, KindCommunity, KindCollection:
		return true
	}
	return false
}

// Record is implemented by every object returned from the record mapper.
type Record interface {
	Kind() RecordKind
	Base() *BaseRecord
}

// BaseRecord holds the fields shared by communities, collections and items.
// UUID stays empty until the object has been created on the server.
type BaseRecord struct {
	UUID    string `json:"uuid,omitempty"`
	Name    string `json:"name,omitempty"`
	Handle  string `json:"handle,omitempty"`
	Link    string `json:"link,omitempty"`
	ObjType string `json:"type,omitempty"`
}

// Community — DSpace community with the UUIDs of its child collections.
type Community struct {
	BaseRecord
	Collections []string `json:"collections"`
}

// NewCommunity returns a community with an empty children list.
func NewCommunity() *Community {
	return &Community{Collections: []string{}}
}

func (c *Community) Kind() RecordKind  { return KindCommunity }
func (c *Community) Base() *BaseRecord { return &c.BaseRecord }

// Collection — DSpace collection.
// Items is filled for collections built locally from CSV, ItemUUIDs for
// collections read back from the server.
type Collection struct {
	BaseRecord
	Items     []*Item  `json:"-"`
	ItemUUIDs []string `json:"items"`
}

// NewCollection returns a collection with empty item lists.
func NewCollection() *Collection {
	return &Collection{Items: []*Item{}, ItemUUIDs: []string{}}
}

func (c *Collection) Kind() RecordKind  { return KindCollection }
func (c *Collection) Base() *BaseRecord { return &c.BaseRecord }
