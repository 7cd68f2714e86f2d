package model

import "time"

// Community — серверная модель сообщества.
type Community struct {
	UUID       string  `gorm:"primaryKey;type:uuid"`
	Name       string  `gorm:"not null"`
	Handle     string  `gorm:"uniqueIndex;not null"`
	ParentUUID *string `gorm:"type:uuid;index"`

	Collections []Collection `gorm:"foreignKey:CommunityUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Collection — серверная модель коллекции.
type Collection struct {
	UUID          string `gorm:"primaryKey;type:uuid"`
	Name          string `gorm:"not null"`
	Handle        string `gorm:"uniqueIndex;not null"`
	CommunityUUID string `gorm:"type:uuid;not null;index"`

	Items []Item `gorm:"foreignKey:CollectionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Item — серверная модель элемента архива.
type Item struct {
	UUID           string `gorm:"primaryKey;type:uuid"`
	Name           string
	Handle         string `gorm:"uniqueIndex;not null"`
	CollectionUUID string `gorm:"type:uuid;not null;index"`

	Metadata   []MetadataValue `gorm:"foreignKey:ItemUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Bitstreams []Bitstream     `gorm:"foreignKey:ItemUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt    time.Time `gorm:"autoCreateTime"`
	LastModified time.Time `gorm:"autoUpdateTime"`
}

// MetadataValue — одно значение метаданных; Place сохраняет порядок.
type MetadataValue struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	ItemUUID string `gorm:"type:uuid;not null;index"`
	Place    int    `gorm:"not null"`
	Key      string `gorm:"not null;index"`
	Value    string
	Language string
}

// Bitstream — файл элемента вместе с содержимым.
type Bitstream struct {
	UUID      string `gorm:"primaryKey;type:uuid"`
	ItemUUID  string `gorm:"type:uuid;not null;index"`
	Name      string `gorm:"not null"`
	SizeBytes int64
	Content   []byte

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// HandleCounter хранит последний выданный суффикс для префикса handle.
type HandleCounter struct {
	Prefix  string `gorm:"primaryKey"`
	Counter int64  `gorm:"not null"`
}

// Object types as reported in the "type" field of the REST API.
const (
	TypeCommunity  = "community"
	TypeCollection = "collection"
	TypeItem       = "item"
	TypeBitstream  = "bitstream"
)

// AllModels возвращает модели для AutoMigrate.
func AllModels() []any {
	return []any{
		&User{}, &Community{}, &Collection{}, &Item{},
		&MetadataValue{}, &Bitstream{}, &HandleCounter{},
	}
}
