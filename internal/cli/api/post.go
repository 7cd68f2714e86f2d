package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"dsaps/internal/cli/model"
)

type createdResponse struct {
	UUID   string `json:"uuid"`
	Handle string `json:"handle"`
}

type itemPayload struct {
	Metadata []model.MetadataEntry `json:"metadata"`
}

// PostBitstream uploads the content of r as a bitstream called name and
// returns the new bitstream UUID.
func (c *Client) PostBitstream(ctx context.Context, itemID, name string, r io.Reader) (string, error) {
	q := url.Values{"name": {name}}
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("items/"+itemID+"/bitstreams", q), r, "")
	if err != nil {
		return "", err
	}
	_, body, err := c.send(req)
	if err != nil {
		return "", err
	}
	var res createdResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode bitstream response: %w", err)
	}
	return res.UUID, nil
}

// UploadBitstream opens bs.FilePath and posts it to the item.
func (c *Client) UploadBitstream(ctx context.Context, itemID string, bs model.Bitstream) (string, error) {
	f, err := os.Open(bs.FilePath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return c.PostBitstream(ctx, itemID, bs.Name, f)
}

// PostCollToComm creates a collection called name inside the community with
// the given handle and returns the collection UUID.
func (c *Client) PostCollToComm(ctx context.Context, commHandle, name string) (string, error) {
	commID, err := c.GetIDFromHandle(ctx, commHandle)
	if err != nil {
		return "", err
	}
	var res createdResponse
	payload := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("communities/"+commID+"/collections", nil), payload, &res); err != nil {
		return "", err
	}
	c.logger.Infow("Collection posted", "uuid", res.UUID, "community", commID)
	return res.UUID, nil
}

// PostItemToCollection creates item inside the collection and returns the new
// item UUID. The server-issued handle is written back to item.Handle.
func (c *Client) PostItemToCollection(ctx context.Context, collectionID string, item *model.Item) (string, error) {
	payload := itemPayload{Metadata: item.Metadata}
	if payload.Metadata == nil {
		payload.Metadata = []model.MetadataEntry{}
	}
	var res createdResponse
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("collections/"+collectionID+"/items", nil), payload, &res); err != nil {
		return "", err
	}
	item.Handle = res.Handle
	return res.UUID, nil
}
