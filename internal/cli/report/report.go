// Package report builds the "records with key" CSV report: every item of a
// collection that carries a metadata key, with its URI and each value.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"dsaps/internal/cli/api"
	"dsaps/internal/cli/model"
)

// URIKey is the metadata key holding an item's persistent URI.
const URIKey = "dc.identifier.uri"

// Row — одна строка отчёта.
type Row struct {
	ItemLink string
	URI      string
	Value    string
}

// Source is the part of the DSpace client the report needs.
type Source interface {
	GetIDFromHandle(ctx context.Context, handle string) (string, error)
	FilteredItemSearch(ctx context.Context, q api.SearchQuery) ([]string, error)
	GetItemMetadata(ctx context.Context, link string) ([]model.MetadataEntry, error)
}

// Generator produces report rows from a DSpace source.
type Generator struct {
	src    Source
	logger *zap.SugaredLogger
}

// NewGenerator creates a report generator.
func NewGenerator(src Source, logger *zap.SugaredLogger) *Generator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{src: src, logger: logger}
}

// Generate lists every value of key for items of the collection identified by handle.
func (g *Generator) Generate(ctx context.Context, key, collectionHandle string) ([]Row, error) {
	collID, err := g.src.GetIDFromHandle(ctx, collectionHandle)
	if err != nil {
		return nil, fmt.Errorf("resolve collection %s: %w", collectionHandle, err)
	}
	links, err := g.src.FilteredItemSearch(ctx, api.SearchQuery{
		Field:       key,
		Op:          api.OpExists,
		Collections: []string{collID},
	})
	if err != nil {
		return nil, err
	}
	g.logger.Infow("Report items found", "key", key, "collection", collID, "items", len(links))

	rows := []Row{}
	for _, link := range links {
		md, err := g.src.GetItemMetadata(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("metadata for %s: %w", link, err)
		}
		rows = append(rows, rowsForItem(link, key, md)...)
	}
	return rows, nil
}

func rowsForItem(link, key string, md []model.MetadataEntry) []Row {
	uri := ""
	for _, m := range md {
		if m.Key == URIKey {
			uri = m.Value
		}
	}
	var rows []Row
	for _, m := range md {
		if m.Key == key {
			rows = append(rows, Row{ItemLink: link, URI: uri, Value: m.Value})
		}
	}
	return rows
}

// WriteCSV writes rows with the header itemID,uri,<key>.
func WriteCSV(w io.Writer, key string, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"itemID", "uri", key}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ItemLink, r.URI, r.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName returns the conventional report file name for key and handle.
func FileName(key, handle string) string {
	return "recordsWith" + key + strings.ReplaceAll(handle, "/", "-") + ".csv"
}
