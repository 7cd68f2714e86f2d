package api

import (
	"fmt"

	"dsaps/internal/cli/model"
)

// PopulateRecord builds the record type for kind from a decoded JSON object.
// Only declared fields are copied; ObjType is taken from the "type" field.
// Children of communities and collections are flattened to their UUIDs.
func PopulateRecord(kind model.RecordKind, raw map[string]any) (model.Record, error) {
	switch kind {
	case model.KindCommunity:
		rec := model.NewCommunity()
		fillBase(&rec.BaseRecord, raw)
		ids, err := BuildUUIDList(raw, "collections")
		if err != nil {
			return nil, err
		}
		rec.Collections = ids
		return rec, nil
	case model.KindCollection:
		rec := model.NewCollection()
		fillBase(&rec.BaseRecord, raw)
		ids, err := BuildUUIDList(raw, "items")
		if err != nil {
			return nil, err
		}
		rec.ItemUUIDs = ids
		return rec, nil
	case model.KindItem:
		rec := model.NewItem()
		fillBase(&rec.BaseRecord, raw)
		if v, ok := raw["metadata"]; ok && v != nil {
			if err := decodeRaw(v, &rec.Metadata); err != nil {
				return nil, fmt.Errorf("item metadata: %w", err)
			}
		}
		if v, ok := raw["bitstreams"]; ok && v != nil {
			if err := decodeRaw(v, &rec.Bitstreams); err != nil {
				return nil, fmt.Errorf("item bitstreams: %w", err)
			}
		}
		rec.FileIdentifier = stringField(raw, "file_identifier")
		rec.SourceSystemIdentifier = stringField(raw, "source_system_identifier")
		return rec, nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedKind, kind)
	}
}

// BuildUUIDList collects the uuid of every object under raw[children].
// A missing key yields an empty list.
func BuildUUIDList(raw map[string]any, children string) ([]string, error) {
	ids := []string{}
	v, ok := raw[children]
	if !ok || v == nil {
		return ids, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected array, got %T", children, v)
	}
	for i, child := range list {
		obj, ok := child.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected object, got %T", children, i, child)
		}
		id, ok := obj["uuid"].(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: missing uuid", children, i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func fillBase(b *model.BaseRecord, raw map[string]any) {
	b.UUID = stringField(raw, "uuid")
	b.Name = stringField(raw, "name")
	b.Handle = stringField(raw, "handle")
	b.Link = stringField(raw, "link")
	b.ObjType = stringField(raw, "type")
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
