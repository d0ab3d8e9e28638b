package claimrisk

import "fmt"

// ColumnBindings maps the user facing parameters and the label onto dataset columns.
type ColumnBindings struct {
	Label       string `json:"label"`
	Tenure      string `json:"tenure"`
	VehicleAge  string `json:"vehicleAge"`
	HolderAge   string `json:"holderAge"`
	AreaCluster string `json:"areaCluster"`
	FuelType    string `json:"fuelType"`
}

func defaultColumnBindings() ColumnBindings {
	return ColumnBindings{
		Label:       "is_claim",
		Tenure:      "policy_tenure",
		VehicleAge:  "age_of_car",
		HolderAge:   "age_of_policyholder",
		AreaCluster: "area_cluster",
		FuelType:    "fuel_type",
	}
}

// DefaultColumnBindings returns the built-in column names of the claim dataset.
func DefaultColumnBindings() ColumnBindings {
	return defaultColumnBindings()
}

// withDefaults fills empty bindings from the built-in names, allowing callers to
// override only the columns they renamed.
func (b ColumnBindings) withDefaults() ColumnBindings {
	d := defaultColumnBindings()
	return ColumnBindings{
		Label:       pickString(b.Label, d.Label),
		Tenure:      pickString(b.Tenure, d.Tenure),
		VehicleAge:  pickString(b.VehicleAge, d.VehicleAge),
		HolderAge:   pickString(b.HolderAge, d.HolderAge),
		AreaCluster: pickString(b.AreaCluster, d.AreaCluster),
		FuelType:    pickString(b.FuelType, d.FuelType),
	}
}

// Features lists the five user controlled feature columns.
func (b ColumnBindings) Features() []string {
	return []string{b.Tenure, b.VehicleAge, b.HolderAge, b.AreaCluster, b.FuelType}
}

// CheckSchema verifies that every parameter column is declared in the schema with
// the kind the form writes into it.
func (b ColumnBindings) CheckSchema(schema *Schema) error {
	want := []struct {
		name string
		kind Kind
	}{
		{b.Tenure, KindNumeric},
		{b.VehicleAge, KindNumeric},
		{b.HolderAge, KindNumeric},
		{b.AreaCluster, KindCategorical},
		{b.FuelType, KindCategorical},
	}
	for _, w := range want {
		_, col, ok := schema.Lookup(w.name)
		if !ok {
			return fmt.Errorf("%w: parameter column %q is not in the schema", ErrSchemaMismatch, w.name)
		}
		if col.Kind != w.kind {
			return fmt.Errorf("%w: parameter column %q must be %s, schema declares %s", ErrSchemaMismatch, w.name, w.kind, col.Kind)
		}
	}
	return nil
}

func pickString(custom, fallback string) string {
	if custom == "" {
		return fallback
	}
	return custom
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
