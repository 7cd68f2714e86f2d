package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaps/internal/cli/model"
)

func TestPopulateRecord_Collection(t *testing.T) {
	raw := map[string]any{"name": "Test title", "type": "collection", "items": []any{}}
	rec, err := PopulateRecord(model.KindCollection, raw)
	require.NoError(t, err)
	coll, ok := rec.(*model.Collection)
	require.True(t, ok)
	assert.Equal(t, "Test title", coll.Name)
	assert.Equal(t, "collection", coll.ObjType)
	assert.NotNil(t, coll.ItemUUIDs)
	assert.Empty(t, coll.ItemUUIDs)
	assert.Empty(t, coll.UUID)
}

func TestPopulateRecord_CommunityFlattensChildren(t *testing.T) {
	raw := map[string]any{
		"uuid": "c0", "type": "community", "copyrightText": "dropped",
		"collections": []any{
			map[string]any{"uuid": "k1", "name": "One"},
			map[string]any{"uuid": "k2", "name": "Two"},
		},
	}
	rec, err := PopulateRecord(model.KindCommunity, raw)
	require.NoError(t, err)
	comm := rec.(*model.Community)
	assert.Equal(t, []string{"k1", "k2"}, comm.Collections)
	assert.Equal(t, model.BaseRecord{UUID: "c0", ObjType: "community"}, comm.BaseRecord)
}

func TestPopulateRecord_ItemDeclaredFieldsOnly(t *testing.T) {
	raw := map[string]any{
		"uuid": "i1", "type": "item", "name": "N", "handle": "h/1", "link": "/rest/items/i1",
		"archived": "true", "withdrawn": "false",
		"metadata": []any{map[string]any{"key": "dc.title", "value": "N", "language": "en"}},
	}
	rec, err := PopulateRecord(model.KindItem, raw)
	require.NoError(t, err)
	want := model.NewItem()
	want.BaseRecord = model.BaseRecord{UUID: "i1", Name: "N", Handle: "h/1", Link: "/rest/items/i1", ObjType: "item"}
	want.Metadata = []model.MetadataEntry{{Key: "dc.title", Value: "N", Language: "en"}}
	assert.Equal(t, want, rec)
}

func TestPopulateRecord_Errors(t *testing.T) {
	_, err := PopulateRecord(model.RecordKind("bitstreams"), map[string]any{})
	assert.ErrorIs(t, err, model.ErrUnsupportedKind)

	_, err = PopulateRecord(model.KindItem, map[string]any{"metadata": "oops"})
	assert.Error(t, err)

	_, err = PopulateRecord(model.KindCollection, map[string]any{"items": []any{"x"}})
	assert.Error(t, err)
}

func TestBuildUUIDList(t *testing.T) {
	ids, err := BuildUUIDList(map[string]any{"items": []any{map[string]any{"uuid": "1234"}}}, "items")
	require.NoError(t, err)
	assert.Equal(t, []string{"1234"}, ids)

	ids, err = BuildUUIDList(map[string]any{}, "items")
	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)

	_, err = BuildUUIDList(map[string]any{"items": "x"}, "items")
	assert.Error(t, err)

	_, err = BuildUUIDList(map[string]any{"items": []any{map[string]any{"name": "no uuid"}}}, "items")
	assert.Error(t, err)
}
