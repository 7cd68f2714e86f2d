package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaps/internal/cli/model"
)

func TestGetIDFromHandle_Cached(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/handle/111.1111/22", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(t, w, map[string]any{"uuid": "a1b2", "type": "community"})
	})
	_, c := newTestServer(t, mux)
	ctx := context.Background()

	id, err := c.GetIDFromHandle(ctx, "111.1111/22")
	require.NoError(t, err)
	assert.Equal(t, "a1b2", id)

	id, err = c.GetIDFromHandle(ctx, "/111.1111/22/")
	require.NoError(t, err)
	assert.Equal(t, "a1b2", id)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetIDFromHandle_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/handle/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, c := newTestServer(t, mux)
	_, err := c.GetIDFromHandle(context.Background(), "1/2")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestGetRecord_Item(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/items/123", func(w http.ResponseWriter, r *http.Request) {
		requireSession(t, r)
		assert.Equal(t, "all", r.URL.Query().Get("expand"))
		writeJSON(t, w, map[string]any{
			"uuid":   "123",
			"name":   "Sample title",
			"handle": "111.1111/3",
			"type":   "item",
			"link":   "/rest/items/123",
			"metadata": []map[string]any{
				{"key": "dc.title", "value": "Sample title", "language": nil},
			},
			"bitstreams":          []map[string]any{{"uuid": "b1", "name": "test_01.pdf"}},
			"lastModified":        "2019-01-01",
			"parentCommunityList": []any{},
		})
	})
	_, c := newTestServer(t, mux)

	rec, err := c.GetRecord(context.Background(), "123", model.KindItem)
	require.NoError(t, err)
	it, ok := rec.(*model.Item)
	require.True(t, ok)
	assert.Equal(t, "item", it.ObjType)
	assert.Equal(t, "111.1111/3", it.Handle)
	assert.Equal(t, []model.MetadataEntry{{Key: "dc.title", Value: "Sample title"}}, it.Metadata)
	assert.Equal(t, []model.Bitstream{{Name: "test_01.pdf"}}, it.Bitstreams)
}

func TestGetRecord_UnsupportedKindNoRequest(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})
	_, c := newTestServer(t, mux)

	rec, err := c.GetRecord(context.Background(), "123", model.RecordKind("bitstreams"))
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, model.ErrUnsupportedKind)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestGetItemMetadata_ResolvesLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/items/u1/metadata", func(w http.ResponseWriter, r *http.Request) {
		requireSession(t, r)
		writeJSON(t, w, []map[string]any{
			{"key": "dc.title", "value": "T"},
			{"key": "dc.identifier.uri", "value": "http://hdl.handle.net/1/2"},
		})
	})
	_, c := newTestServer(t, mux)

	for _, link := range []string{"/rest/items/u1", "items/u1"} {
		md, err := c.GetItemMetadata(context.Background(), link)
		require.NoError(t, err, link)
		require.Len(t, md, 2)
		assert.Equal(t, "dc.identifier.uri", md[1].Key)
	}
}
