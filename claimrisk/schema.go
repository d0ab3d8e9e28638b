package claimrisk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the encoding family of a feature column.
type Kind string

const (
	// KindNumeric columns hold finite floating point values.
	KindNumeric Kind = "numeric"
	// KindCategorical columns hold one of a declared set of levels.
	KindCategorical Kind = "categorical"
)

// Column declares one classifier input.
type Column struct {
	Name   string   `yaml:"name"`
	Kind   Kind     `yaml:"kind"`
	Levels []string `yaml:"levels,omitempty"`
}

// Schema is the ordered, typed list of columns the classifier was trained on.
// It is immutable once constructed.
type Schema struct {
	columns []Column
	index   map[string]int
	levels  []map[string]int
}

type schemaFile struct {
	Columns []Column `yaml:"columns"`
}

// NewSchema validates the declared columns and builds lookup tables.
func NewSchema(columns []Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, errors.New("schema declares no columns")
	}
	s := &Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
		levels:  make([]map[string]int, len(columns)),
	}
	for i, col := range columns {
		name := NormalizeCell(col.Name)
		if name == "" {
			return nil, fmt.Errorf("schema column %d has no name", i+1)
		}
		if _, dup := s.index[name]; dup {
			return nil, fmt.Errorf("schema column %q declared twice", name)
		}
		switch col.Kind {
		case KindNumeric:
			if len(col.Levels) > 0 {
				return nil, fmt.Errorf("numeric column %q must not declare levels", name)
			}
		case KindCategorical:
			if len(col.Levels) == 0 {
				return nil, fmt.Errorf("categorical column %q declares no levels", name)
			}
			lv := make(map[string]int, len(col.Levels))
			for j, level := range col.Levels {
				level = NormalizeCell(level)
				if _, dup := lv[level]; dup {
					return nil, fmt.Errorf("categorical column %q repeats level %q", name, level)
				}
				lv[level] = j
			}
			s.levels[i] = lv
		default:
			return nil, fmt.Errorf("column %q has unknown kind %q", name, col.Kind)
		}
		s.columns[i] = Column{Name: name, Kind: col.Kind, Levels: NormalizeAll(col.Levels)}
		s.index[name] = i
	}
	return s, nil
}

// LoadSchema reads a YAML schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open schema %s: %w", filepath.Base(path), err)
	}
	var file schemaFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", filepath.Base(path), err)
	}
	s, err := NewSchema(file.Columns)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// SaveSchema writes the schema as YAML.
func SaveSchema(path string, s *Schema) error {
	var buf bytes.Buffer
	if err := WriteSchema(&buf, s); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create schema dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteSchema encodes the schema as YAML to w.
func WriteSchema(w io.Writer, s *Schema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(schemaFile{Columns: s.Columns()}); err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	return enc.Close()
}

// InferSchema derives a schema from the dataset's feature columns. A column is
// numeric when every cell parses as a finite float; otherwise it is categorical
// with levels in first-appearance order.
func InferSchema(ds *Dataset) (*Schema, error) {
	names := ds.FeatureColumns()
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		values, err := ds.Values(name)
		if err != nil {
			return nil, err
		}
		if allNumeric(values) {
			cols = append(cols, Column{Name: name, Kind: KindNumeric})
			continue
		}
		cols = append(cols, Column{Name: name, Kind: KindCategorical, Levels: distinct(values)})
	}
	return NewSchema(cols)
}

// Len returns the number of declared columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the declared columns in order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	for i, c := range s.columns {
		out[i] = Column{Name: c.Name, Kind: c.Kind, Levels: cloneStrings(c.Levels)}
	}
	return out
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// Lookup returns the position and declaration of a column.
func (s *Schema) Lookup(name string) (int, Column, bool) {
	if s == nil {
		return -1, Column{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return -1, Column{}, false
	}
	return i, s.columns[i], true
}

// LevelIndex returns the training code of a categorical value.
func (s *Schema) LevelIndex(col int, value string) (int, bool) {
	if col < 0 || col >= len(s.levels) || s.levels[col] == nil {
		return -1, false
	}
	idx, ok := s.levels[col][value]
	return idx, ok
}

// CheckColumns reports every column missing from names and every name the schema
// does not declare.
func (s *Schema) CheckColumns(names []string) error {
	seen := make(map[string]struct{}, len(names))
	var extra []string
	for _, n := range names {
		seen[n] = struct{}{}
		if _, ok := s.index[n]; !ok {
			extra = append(extra, n)
		}
	}
	var missing []string
	for _, c := range s.columns {
		if _, ok := seen[c.Name]; !ok {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "undeclared: "+strings.Join(extra, ", "))
	}
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(parts, "; "))
}

// ParseValue converts a raw cell into a typed value for the given column.
func (s *Schema) ParseValue(col int, raw string) (Value, error) {
	c := s.columns[col]
	switch c.Kind {
	case KindNumeric:
		f, err := parseFinite(raw)
		if err != nil {
			return Value{}, fmt.Errorf("column %q: %w", c.Name, err)
		}
		return Number(f), nil
	default:
		if _, ok := s.levels[col][raw]; !ok {
			return Value{}, fmt.Errorf("column %q: undeclared level %q", c.Name, raw)
		}
		return Category(raw), nil
	}
}

func parseFinite(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %q", raw)
	}
	return f, nil
}

func allNumeric(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if _, err := parseFinite(v); err != nil {
			return false
		}
	}
	return true
}

func distinct(values []string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
