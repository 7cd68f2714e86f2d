package handlers

import (
	"time"

	"dsaps/internal/model"
)

// ObjectDTO — общие поля любого объекта DSpace.
type ObjectDTO struct {
	UUID   string   `json:"uuid"`
	Name   string   `json:"name"`
	Handle string   `json:"handle,omitempty"`
	Type   string   `json:"type"`
	Link   string   `json:"link"`
	Expand []string `json:"expand"`
}

type CommunityDTO struct {
	ObjectDTO
	ParentCommunity *ObjectDTO  `json:"parentCommunity,omitempty"`
	Collections     []ObjectDTO `json:"collections"`
}

type CollectionDTO struct {
	ObjectDTO
	ParentCommunity *ObjectDTO  `json:"parentCommunity,omitempty"`
	NumberItems     int         `json:"numberItems"`
	Items           []ObjectDTO `json:"items"`
}

type ItemDTO struct {
	ObjectDTO
	Archived         string         `json:"archived"`
	Withdrawn        string         `json:"withdrawn"`
	LastModified     string         `json:"lastModified"`
	ParentCollection *ObjectDTO     `json:"parentCollection,omitempty"`
	Metadata         []MetadataDTO  `json:"metadata"`
	Bitstreams       []BitstreamDTO `json:"bitstreams"`
}

// MetadataDTO — элемент metadata в запросах и ответах.
type MetadataDTO struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Language string `json:"language"`
}

type BitstreamDTO struct {
	ObjectDTO
	SizeBytes  int64  `json:"sizeBytes"`
	BundleName string `json:"bundleName"`
}

// NameRequest — тело POST /communities и POST /communities/{id}/collections.
type NameRequest struct {
	Name string `json:"name"`
}

// ItemRequest — тело POST /collections/{id}/items.
type ItemRequest struct {
	Metadata []MetadataDTO `json:"metadata"`
}

// FilteredItemsResponse — ответ /filtered-items.
type FilteredItemsResponse struct {
	Items     []ObjectDTO `json:"items"`
	ItemCount int         `json:"item-count"`
	Limit     int         `json:"limit"`
	Offset    int         `json:"offset"`
}

func link(kind, id string) string {
	return APIPrefix + "/" + kind + "/" + id
}

func communityRef(c *model.Community) ObjectDTO {
	return ObjectDTO{
		UUID: c.UUID, Name: c.Name, Handle: c.Handle, Type: model.TypeCommunity,
		Link: link("communities", c.UUID), Expand: []string{"parentCommunity", "collections", "all"},
	}
}

func collectionRef(c *model.Collection) ObjectDTO {
	return ObjectDTO{
		UUID: c.UUID, Name: c.Name, Handle: c.Handle, Type: model.TypeCollection,
		Link: link("collections", c.UUID), Expand: []string{"parentCommunity", "items", "all"},
	}
}

func itemRef(it *model.Item) ObjectDTO {
	return ObjectDTO{
		UUID: it.UUID, Name: it.Name, Handle: it.Handle, Type: model.TypeItem,
		Link: link("items", it.UUID), Expand: []string{"metadata", "parentCollection", "bitstreams", "all"},
	}
}

func bitstreamDTO(b *model.Bitstream) BitstreamDTO {
	return BitstreamDTO{
		ObjectDTO: ObjectDTO{
			UUID: b.UUID, Name: b.Name, Type: model.TypeBitstream,
			Link: link("bitstreams", b.UUID), Expand: []string{"parent", "all"},
		},
		SizeBytes:  b.SizeBytes,
		BundleName: "ORIGINAL",
	}
}

func metadataDTOs(md []model.MetadataValue) []MetadataDTO {
	out := make([]MetadataDTO, 0, len(md))
	for _, m := range md {
		out = append(out, MetadataDTO{Key: m.Key, Value: m.Value, Language: m.Language})
	}
	return out
}

func metadataValues(md []MetadataDTO) []model.MetadataValue {
	out := make([]model.MetadataValue, 0, len(md))
	for _, m := range md {
		out = append(out, model.MetadataValue{Key: m.Key, Value: m.Value, Language: m.Language})
	}
	return out
}

func toCommunityDTO(c *model.Community, parent *model.Community) CommunityDTO {
	dto := CommunityDTO{ObjectDTO: communityRef(c), Collections: []ObjectDTO{}}
	if parent != nil {
		ref := communityRef(parent)
		dto.ParentCommunity = &ref
	}
	for i := range c.Collections {
		dto.Collections = append(dto.Collections, collectionRef(&c.Collections[i]))
	}
	return dto
}

func toCollectionDTO(c *model.Collection, parent *model.Community) CollectionDTO {
	dto := CollectionDTO{ObjectDTO: collectionRef(c), NumberItems: len(c.Items), Items: []ObjectDTO{}}
	if parent != nil {
		ref := communityRef(parent)
		dto.ParentCommunity = &ref
	}
	for i := range c.Items {
		dto.Items = append(dto.Items, itemRef(&c.Items[i]))
	}
	return dto
}

func toItemDTO(it *model.Item, parent *model.Collection) ItemDTO {
	dto := ItemDTO{
		ObjectDTO:    itemRef(it),
		Archived:     "true",
		Withdrawn:    "false",
		LastModified: it.LastModified.UTC().Format(time.RFC3339),
		Metadata:     metadataDTOs(it.Metadata),
		Bitstreams:   []BitstreamDTO{},
	}
	if parent != nil {
		ref := collectionRef(parent)
		dto.ParentCollection = &ref
	}
	for i := range it.Bitstreams {
		dto.Bitstreams = append(dto.Bitstreams, bitstreamDTO(&it.Bitstreams[i]))
	}
	return dto
}
