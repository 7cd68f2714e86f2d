package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaps/internal/cli/model"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestBitstreamsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "test_02.pdf"))
	touch(t, filepath.Join(dir, "a", "test_01.pdf"))
	touch(t, filepath.Join(dir, "test_01.jpg"))
	touch(t, filepath.Join(dir, "other_01.pdf"))
	touch(t, filepath.Join(dir, "test"))
	touch(t, filepath.Join(dir, ".hidden", "test_03.pdf"))

	it := model.NewItem()
	it.FileIdentifier = "test"

	require.NoError(t, BitstreamsFromDirectory(it, dir, "pdf"))
	assert.Equal(t, []model.Bitstream{
		{Name: "test_01.pdf", FilePath: filepath.Join(dir, "a", "test_01.pdf")},
		{Name: "test_02.pdf", FilePath: filepath.Join(dir, "test_02.pdf")},
	}, it.Bitstreams)

	require.NoError(t, BitstreamsFromDirectory(it, dir, "*"))
	names := []string{}
	for _, b := range it.Bitstreams {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"test_01.pdf", "test_01.jpg", "test_02.pdf"}, names)
}

func TestBitstreamsFromDirectory_Errors(t *testing.T) {
	it := model.NewItem()
	assert.ErrorIs(t, BitstreamsFromDirectory(it, t.TempDir(), ""), ErrNoFileIdentifier)

	it.FileIdentifier = "x"
	assert.Error(t, BitstreamsFromDirectory(it, filepath.Join(t.TempDir(), "missing"), ""))
}

func TestAttachBitstreams(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "f1.pdf"))
	coll := model.NewCollection()
	a, b := model.NewItem(), model.NewItem()
	a.FileIdentifier, b.FileIdentifier = "f1", "f2"
	coll.Items = append(coll.Items, a, b)

	require.NoError(t, AttachBitstreams(coll, dir, "pdf"))
	assert.Len(t, a.Bitstreams, 1)
	assert.Empty(t, b.Bitstreams)
}
