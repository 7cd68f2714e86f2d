package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-yaml/yaml"
)

// FieldMapping maps one DSpace metadata key to a CSV column.
type FieldMapping struct {
	Key          string
	CSVFieldName string
	Delimiter    string // optional, splits multi-valued cells
	Language     string // optional language tag
}

// FieldMap is an ordered list of mappings; metadata is emitted in this order.
type FieldMap []FieldMapping

type fieldSpec struct {
	CSVFieldName string `json:"csv_field_name" yaml:"csv_field_name"`
	Delimiter    string `json:"delimiter" yaml:"delimiter"`
	Language     string `json:"language" yaml:"language"`
}

// LoadFieldMap reads a field map file. Files ending in .yml/.yaml are parsed as
// YAML, everything else as JSON.
func LoadFieldMap(path string) (FieldMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return ParseFieldMapYAML(data)
	default:
		return ParseFieldMapJSON(data)
	}
}

// ParseFieldMapJSON parses {"dc.title": {"csv_field_name": ..., ...}, ...}
// keeping the key order of the document.
func ParseFieldMapJSON(data []byte) (FieldMap, error) {
	var specs map[string]fieldSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("field map: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // {
		return nil, fmt.Errorf("field map: %w", err)
	}
	keys := make([]string, 0, len(specs))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("field map: %w", err)
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("field map: %w", err)
		}
	}
	return build(keys, specs)
}

// ParseFieldMapYAML parses the same structure written as YAML.
func ParseFieldMapYAML(data []byte) (FieldMap, error) {
	var order yaml.MapSlice
	if err := yaml.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("field map: %w", err)
	}
	var specs map[string]fieldSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("field map: %w", err)
	}
	keys := make([]string, 0, len(order))
	for _, kv := range order {
		keys = append(keys, fmt.Sprint(kv.Key))
	}
	return build(keys, specs)
}

func build(keys []string, specs map[string]fieldSpec) (FieldMap, error) {
	fm := make(FieldMap, 0, len(keys))
	for _, k := range keys {
		s := specs[k]
		fm = append(fm, FieldMapping{
			Key:          k,
			CSVFieldName: s.CSVFieldName,
			Delimiter:    s.Delimiter,
			Language:     s.Language,
		})
	}
	if err := fm.Validate(); err != nil {
		return nil, err
	}
	return fm, nil
}

// Validate checks that every mapping has a key and a source column.
func (fm FieldMap) Validate() error {
	if len(fm) == 0 {
		return errors.New("field map is empty")
	}
	seen := make(map[string]bool, len(fm))
	for i, f := range fm {
		if f.Key == "" {
			return fmt.Errorf("field map entry %d: empty metadata key", i)
		}
		if f.CSVFieldName == "" {
			return fmt.Errorf("field map %q: csv_field_name is required", f.Key)
		}
		if seen[f.Key] {
			return fmt.Errorf("field map %q: duplicate key", f.Key)
		}
		seen[f.Key] = true
	}
	return nil
}
