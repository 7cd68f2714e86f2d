package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"dsaps/internal/cli/model"
)

// ErrNoFileIdentifier is returned when files are looked up for an item
// without a file identifier.
var ErrNoFileIdentifier = errors.New("item has no file identifier")

// BitstreamsFromDirectory replaces item.Bitstreams with every file under dir
// whose name starts with the item's file identifier and has extension ext
// ("" or "*" for any). Matches are sorted by path.
func BitstreamsFromDirectory(item *model.Item, dir, ext string) error {
	if item.FileIdentifier == "" {
		return ErrNoFileIdentifier
	}
	ext = strings.TrimPrefix(ext, ".")
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if matchFile(name, item.FileIdentifier, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	bitstreams := make([]model.Bitstream, 0, len(files))
	for _, f := range files {
		bitstreams = append(bitstreams, model.Bitstream{Name: filepath.Base(f), FilePath: f})
	}
	item.Bitstreams = bitstreams
	return nil
}

// matchFile mirrors the glob "<prefix>*.<ext>".
func matchFile(name, prefix, ext string) bool {
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	rest := name[len(prefix):]
	if ext == "" || ext == "*" {
		return strings.Contains(rest, ".")
	}
	return strings.HasSuffix(rest, "."+ext)
}

// AttachBitstreams runs BitstreamsFromDirectory for every item of coll.
func AttachBitstreams(coll *model.Collection, dir, ext string) error {
	for _, it := range coll.Items {
		if err := BitstreamsFromDirectory(it, dir, ext); err != nil {
			return fmt.Errorf("item %q: %w", it.FileIdentifier, err)
		}
	}
	return nil
}
