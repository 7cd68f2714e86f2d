package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaps/internal/cli/model"
)

func TestItemFromRow_FileIdentifierAndSingleValue(t *testing.T) {
	fm := FieldMap{
		{Key: "dc.title", CSVFieldName: "dc.title"},
		{Key: "file_identifier", CSVFieldName: "file_identifier"},
	}
	row := Row{"dc.title": "X", "file_identifier": "F1"}

	it, err := ItemFromRow(row, fm)
	require.NoError(t, err)
	assert.Equal(t, "F1", it.FileIdentifier)
	assert.Equal(t, []model.MetadataEntry{{Key: "dc.title", Value: "X"}}, it.Metadata)
	assert.Empty(t, it.UUID)
	assert.Empty(t, it.SourceSystemIdentifier)
}

func TestItemFromRow_Delimiter(t *testing.T) {
	fm := FieldMap{{Key: "dc.subject", CSVFieldName: "subjects", Delimiter: ";", Language: "en_US"}}
	it, err := ItemFromRow(Row{"subjects": "a;b;c"}, fm)
	require.NoError(t, err)
	assert.Equal(t, []model.MetadataEntry{
		{Key: "dc.subject", Value: "a", Language: "en_US"},
		{Key: "dc.subject", Value: "b", Language: "en_US"},
		{Key: "dc.subject", Value: "c", Language: "en_US"},
	}, it.Metadata)
}

func TestItemFromRow_SourceSystemIdentifier(t *testing.T) {
	fm := FieldMap{
		{Key: "dc.title", CSVFieldName: "title"},
		{Key: SourceSystemIdentifierKey, CSVFieldName: "uri"},
	}
	it, err := ItemFromRow(Row{"title": "T", "uri": "repo/0/ao/123"}, fm)
	require.NoError(t, err)
	assert.Equal(t, "repo/0/ao/123", it.SourceSystemIdentifier)
	// значение всё равно уходит в метаданные
	assert.Equal(t, []string{"repo/0/ao/123"}, it.Values(SourceSystemIdentifierKey))
	assert.Empty(t, it.FileIdentifier)
}

func TestItemFromRow_MissingColumn(t *testing.T) {
	fm := FieldMap{{Key: "dc.title", CSVFieldName: "title"}}
	_, err := ItemFromRow(Row{"name": "x"}, fm)
	assert.Error(t, err)
}

func TestCollectionFromCSV(t *testing.T) {
	fm := FieldMap{
		{Key: "file_identifier", CSVFieldName: "file_identifier"},
		{Key: "dc.title", CSVFieldName: "title", Language: "en_US"},
		{Key: "dc.contributor.author", CSVFieldName: "authors", Delimiter: "|"},
	}
	doc := "\ufefffile_identifier,title,authors\n" +
		"f1,\"First, title\",Smith|Jones\n" +
		"f2,Second,Doe\n"

	coll, err := CollectionFromCSV(strings.NewReader(doc), fm)
	require.NoError(t, err)
	require.Len(t, coll.Items, 2)
	first := coll.Items[0]
	assert.Equal(t, "f1", first.FileIdentifier)
	assert.Equal(t, []string{"First, title"}, first.Values("dc.title"))
	assert.Equal(t, []string{"Smith", "Jones"}, first.Values("dc.contributor.author"))
	// порядок метаданных совпадает с порядком полей в карте
	assert.Equal(t, "dc.title", first.Metadata[0].Key)
	assert.Equal(t, "f2", coll.Items[1].FileIdentifier)
	assert.Empty(t, coll.UUID)
}

func TestCollectionFromCSV_Errors(t *testing.T) {
	fm := FieldMap{{Key: "dc.title", CSVFieldName: "title"}}
	_, err := CollectionFromCSV(strings.NewReader(""), fm)
	assert.Error(t, err)

	_, err = CollectionFromCSV(strings.NewReader("name\nx\n"), fm)
	assert.Error(t, err)

	_, err = CollectionFromCSV(strings.NewReader("title,b\nx\n"), fm)
	assert.Error(t, err)
}
