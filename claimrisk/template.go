package claimrisk

import "fmt"

// Template is the immutable base row used for every column the user does not
// control.
type Template struct {
	row FeatureRow
}

// BuildTemplate takes the dataset's first record, drops the label column and binds
// it to the schema.
func BuildTemplate(ds *Dataset, schema *Schema) (Template, error) {
	if ds == nil || ds.Len() == 0 {
		return Template{}, ErrEmptyDataset
	}
	row, err := NewFeatureRow(schema, ds.Features(0))
	if err != nil {
		return Template{}, fmt.Errorf("build template: %w", err)
	}
	return Template{row: row}, nil
}

// Row returns a fresh copy of the template row.
func (t Template) Row() FeatureRow {
	return t.row.Clone()
}

// Columns returns the template's column names in schema order.
func (t Template) Columns() []string {
	return t.row.Columns()
}
