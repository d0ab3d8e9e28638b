package claimrisk

import (
	"fmt"
	"strconv"
)

// Dataset is the read-only table of historical policies loaded at startup.
type Dataset struct {
	header  []string
	index   map[string]int
	label   int
	records [][]string
	claims  []bool
}

func newDataset(header []string, label int, records [][]string) (*Dataset, error) {
	ds := &Dataset{
		header:  header,
		index:   make(map[string]int, len(header)),
		label:   label,
		records: records,
		claims:  make([]bool, len(records)),
	}
	for i, name := range header {
		ds.index[name] = i
	}
	for i, rec := range records {
		claim, err := parseClaim(rec[label])
		if err != nil {
			return nil, fmt.Errorf("record %d: column %q: %w", i+1, header[label], err)
		}
		ds.claims[i] = claim
	}
	return ds, nil
}

func parseClaim(raw string) (bool, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false, fmt.Errorf("label %q is not 0 or 1", raw)
	}
	switch f {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("label %q is not 0 or 1", raw)
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Header returns all column names including the label.
func (d *Dataset) Header() []string {
	return cloneStrings(d.header)
}

// LabelColumn returns the name of the label column.
func (d *Dataset) LabelColumn() string {
	return d.header[d.label]
}

// FeatureColumns returns the header without the label column.
func (d *Dataset) FeatureColumns() []string {
	out := make([]string, 0, len(d.header)-1)
	for i, name := range d.header {
		if i == d.label {
			continue
		}
		out = append(out, name)
	}
	return out
}

// HasColumn reports whether the header contains name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Values returns every cell of a column in record order.
func (d *Dataset) Values(name string) ([]string, error) {
	col, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]string, len(d.records))
	for i, rec := range d.records {
		out[i] = rec[col]
	}
	return out, nil
}

// Distinct returns the distinct values of a column in first-appearance order.
func (d *Dataset) Distinct(name string) ([]string, error) {
	values, err := d.Values(name)
	if err != nil {
		return nil, err
	}
	return distinct(values), nil
}

// Claim reports the label of record i.
func (d *Dataset) Claim(i int) bool {
	return d.claims[i]
}

// ClaimRate returns the mean of the label column.
func (d *Dataset) ClaimRate() float64 {
	if len(d.claims) == 0 {
		return 0
	}
	n := 0
	for _, c := range d.claims {
		if c {
			n++
		}
	}
	return float64(n) / float64(len(d.claims))
}

// Features returns record i without the label column, keyed by column name.
func (d *Dataset) Features(i int) map[string]string {
	rec := d.records[i]
	out := make(map[string]string, len(rec)-1)
	for j, name := range d.header {
		if j == d.label {
			continue
		}
		out[name] = rec[j]
	}
	return out
}
