package ingest

import (
	"fmt"
	"io"
	"strings"

	"dsaps/internal/cli/model"
)

const (
	// FileIdentifierKey maps the column used to find an item's files. It is
	// never sent to DSpace as metadata.
	FileIdentifierKey = "file_identifier"
	// SourceSystemIdentifierKey is also captured as Item.SourceSystemIdentifier.
	SourceSystemIdentifierKey = "dc.relation.isversionof"
)

// ItemFromRow converts one CSV row into an item following fm.
func ItemFromRow(row Row, fm FieldMap) (*model.Item, error) {
	item := model.NewItem()
	for _, f := range fm {
		value, ok := row[f.CSVFieldName]
		if !ok {
			return nil, fmt.Errorf("%s: column %q not found", f.Key, f.CSVFieldName)
		}
		if f.Key == FileIdentifierKey {
			item.FileIdentifier = value
			continue
		}
		if f.Key == SourceSystemIdentifierKey {
			item.SourceSystemIdentifier = value
		}
		values := []string{value}
		if f.Delimiter != "" {
			values = strings.Split(value, f.Delimiter)
		}
		for _, v := range values {
			if err := item.AddMetadata(f.Key, v, f.Language); err != nil {
				return nil, err
			}
		}
	}
	return item, nil
}

// CollectionFromRows builds an unsaved collection with one item per row.
func CollectionFromRows(rows []Row, fm FieldMap) (*model.Collection, error) {
	coll := model.NewCollection()
	for i, row := range rows {
		it, err := ItemFromRow(row, fm)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		coll.Items = append(coll.Items, it)
	}
	return coll, nil
}

// CollectionFromCSV reads r and builds a collection from it.
func CollectionFromCSV(r io.Reader, fm FieldMap) (*model.Collection, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return CollectionFromRows(rows, fm)
}
