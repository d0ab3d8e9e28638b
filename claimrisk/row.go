package claimrisk

import (
	"fmt"
	"strconv"
)

// Value is a single scalar cell of a feature row.
type Value struct {
	Kind   Kind
	Number float64
	Text   string
}

// Number wraps a numeric value.
func Number(f float64) Value {
	return Value{Kind: KindNumeric, Number: f}
}

// Category wraps a categorical value.
func Category(s string) Value {
	return Value{Kind: KindCategorical, Text: s}
}

// String renders the value the way it appeared in the dataset.
func (v Value) String() string {
	if v.Kind == KindNumeric {
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	}
	return v.Text
}

// FeatureRow is a fixed-width, schema-ordered record of classifier inputs.
// Its column set can never change; only values of declared columns can be replaced.
type FeatureRow struct {
	schema *Schema
	values []Value
}

// NewFeatureRow builds a row from raw cells keyed by column name. Every schema
// column must be present; extra keys are rejected.
func NewFeatureRow(schema *Schema, cells map[string]string) (FeatureRow, error) {
	names := make([]string, 0, len(cells))
	for name := range cells {
		names = append(names, name)
	}
	if err := schema.CheckColumns(names); err != nil {
		return FeatureRow{}, err
	}
	row := FeatureRow{schema: schema, values: make([]Value, schema.Len())}
	for i, name := range schema.Names() {
		v, err := schema.ParseValue(i, cells[name])
		if err != nil {
			return FeatureRow{}, err
		}
		row.values[i] = v
	}
	return row, nil
}

// Schema returns the schema the row is bound to.
func (r FeatureRow) Schema() *Schema {
	return r.schema
}

// Len returns the number of columns.
func (r FeatureRow) Len() int {
	return len(r.values)
}

// Columns returns the column names in schema order.
func (r FeatureRow) Columns() []string {
	if r.schema == nil {
		return nil
	}
	return r.schema.Names()
}

// Get returns the value of a column.
func (r FeatureRow) Get(name string) (Value, bool) {
	if r.schema == nil {
		return Value{}, false
	}
	i, _, ok := r.schema.Lookup(name)
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// At returns the value at a schema position.
func (r FeatureRow) At(i int) Value {
	return r.values[i]
}

// Clone returns an independent copy of the row.
func (r FeatureRow) Clone() FeatureRow {
	out := FeatureRow{schema: r.schema, values: make([]Value, len(r.values))}
	copy(out.values, r.values)
	return out
}

// SetNumber replaces the value of a numeric column.
func (r FeatureRow) SetNumber(name string, f float64) error {
	i, col, err := r.lookup(name)
	if err != nil {
		return err
	}
	if col.Kind != KindNumeric {
		return fmt.Errorf("column %q is %s, not numeric", name, col.Kind)
	}
	r.values[i] = Number(f)
	return nil
}

// SetCategory replaces the value of a categorical column. The value must be a
// declared level.
func (r FeatureRow) SetCategory(name, level string) error {
	i, col, err := r.lookup(name)
	if err != nil {
		return err
	}
	if col.Kind != KindCategorical {
		return fmt.Errorf("column %q is %s, not categorical", name, col.Kind)
	}
	if _, ok := r.schema.LevelIndex(i, level); !ok {
		return fmt.Errorf("column %q: undeclared level %q", name, level)
	}
	r.values[i] = Category(level)
	return nil
}

// Encode returns the row as a float32 vector in schema order. Categorical values
// are encoded as their index in the declared levels.
func (r FeatureRow) Encode() ([]float32, error) {
	out := make([]float32, len(r.values))
	for i, v := range r.values {
		if v.Kind == KindNumeric {
			out[i] = float32(v.Number)
			continue
		}
		code, ok := r.schema.LevelIndex(i, v.Text)
		if !ok {
			return nil, fmt.Errorf("column %q: undeclared level %q", r.schema.columns[i].Name, v.Text)
		}
		out[i] = float32(code)
	}
	return out, nil
}

// Cells returns the row as raw strings keyed by column.
func (r FeatureRow) Cells() map[string]string {
	out := make(map[string]string, len(r.values))
	for i, name := range r.Columns() {
		out[name] = r.values[i].String()
	}
	return out
}

func (r FeatureRow) lookup(name string) (int, Column, error) {
	if r.schema == nil {
		return -1, Column{}, fmt.Errorf("row is not bound to a schema")
	}
	i, col, ok := r.schema.Lookup(name)
	if !ok {
		return -1, Column{}, fmt.Errorf("column %q is not part of the schema", name)
	}
	return i, col, nil
}
