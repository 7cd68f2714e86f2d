package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/patrickmn/go-cache"

	"dsaps/internal/cli/model"
)

type handleResponse struct {
	UUID string `json:"uuid"`
	Type string `json:"type"`
}

// GetIDFromHandle resolves a handle (e.g. 1721.1/12345) to the object's UUID.
// Successful lookups are cached for the lifetime of the client.
func (c *Client) GetIDFromHandle(ctx context.Context, handle string) (string, error) {
	handle = strings.Trim(handle, "/")
	if id, ok := c.handles.Get(handle); ok {
		return id.(string), nil
	}
	var res handleResponse
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("/handle/"+handle, nil), nil, &res); err != nil {
		return "", err
	}
	if res.UUID == "" {
		return "", fmt.Errorf("handle %s: empty uuid in response", handle)
	}
	c.handles.Set(handle, res.UUID, cache.DefaultExpiration)
	return res.UUID, nil
}

// GetRecord fetches one object with all expansions and maps it onto the record
// type for kind. An unsupported kind fails before any request is sent.
func (c *Client) GetRecord(ctx context.Context, uuid string, kind model.RecordKind) (model.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedKind, kind)
	}
	q := url.Values{"expand": {"all"}}
	var raw map[string]any
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(string(kind)+"/"+uuid, q), nil, &raw); err != nil {
		return nil, err
	}
	return PopulateRecord(kind, raw)
}

// GetItemMetadata returns the metadata of the item addressed by link, as
// returned in filtered-items results (e.g. /rest/items/{uuid}).
func (c *Client) GetItemMetadata(ctx context.Context, link string) ([]model.MetadataEntry, error) {
	target, err := c.resolveLink(link)
	if err != nil {
		return nil, err
	}
	var entries []model.MetadataEntry
	if err := c.doJSON(ctx, http.MethodGet, strings.TrimRight(target, "/")+"/metadata", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// resolveLink makes a server-relative link absolute against the client's base URL.
func (c *Client) resolveLink(link string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("bad item link %q: %w", link, err)
	}
	if !ref.IsAbs() && !strings.HasPrefix(ref.Path, "/") {
		return c.endpoint(ref.Path, nil), nil
	}
	return base.ResolveReference(ref).String(), nil
}

// decodeRaw is used by the mapper to turn nested raw values into typed slices.
func decodeRaw(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
