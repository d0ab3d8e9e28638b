package claimrisk

import (
	"fmt"
	"math"
)

// NumericDomain bounds a numeric parameter.
type NumericDomain struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Clamp pulls v into [Min, Max].
func (d NumericDomain) Clamp(v float64) float64 {
	if v < d.Min {
		return d.Min
	}
	if v > d.Max {
		return d.Max
	}
	return v
}

// ChoiceDomain restricts a parameter to a fixed option list.
type ChoiceDomain struct {
	Options []string `json:"options"`
	Default string   `json:"default"`
}

// Contains reports whether v is one of the options.
func (d ChoiceDomain) Contains(v string) bool {
	for _, o := range d.Options {
		if o == v {
			return true
		}
	}
	return false
}

// Form declares the five user facing parameters and their domains.
type Form struct {
	Tenure      NumericDomain `json:"tenure"`
	VehicleAge  NumericDomain `json:"vehicleAge"`
	HolderAge   NumericDomain `json:"holderAge"`
	AreaCluster ChoiceDomain  `json:"areaCluster"`
	FuelType    ChoiceDomain  `json:"fuelType"`
}

// Submission carries raw form values. A nil field means the value was not supplied.
type Submission struct {
	Tenure      *float64 `json:"tenure"`
	VehicleAge  *float64 `json:"vehicleAge"`
	HolderAge   *float64 `json:"holderAge"`
	AreaCluster *string  `json:"areaCluster"`
	FuelType    *string  `json:"fuelType"`
}

// NewForm builds the form with the category options observed in the dataset.
func NewForm(ds *Dataset, cols ColumnBindings) (Form, error) {
	clusters, err := ds.Distinct(cols.AreaCluster)
	if err != nil {
		return Form{}, fmt.Errorf("area cluster options: %w", err)
	}
	fuels, err := ds.Distinct(cols.FuelType)
	if err != nil {
		return Form{}, fmt.Errorf("fuel type options: %w", err)
	}
	if len(clusters) == 0 || len(fuels) == 0 {
		return Form{}, ErrEmptyDataset
	}
	return Form{
		Tenure:      NumericDomain{Min: 0, Max: 2, Default: 0.5, Step: 0.01},
		VehicleAge:  NumericDomain{Min: 0, Max: 1, Default: 0.1, Step: 0.01},
		HolderAge:   NumericDomain{Min: 18, Max: 100, Default: 35, Step: 1},
		AreaCluster: ChoiceDomain{Options: clusters, Default: clusters[0]},
		FuelType:    ChoiceDomain{Options: fuels, Default: fuels[0]},
	}, nil
}

// Defaults returns a complete submission holding every default value.
func (f Form) Defaults() Submission {
	tenure := f.Tenure.Default
	car := f.VehicleAge.Default
	age := f.HolderAge.Default
	cluster := f.AreaCluster.Default
	fuel := f.FuelType.Default
	return Submission{
		Tenure:      &tenure,
		VehicleAge:  &car,
		HolderAge:   &age,
		AreaCluster: &cluster,
		FuelType:    &fuel,
	}
}

// Submit validates a submission as a whole. Either every value is accepted and an
// InputSet is returned, or nothing is.
func (f Form) Submit(s Submission) (InputSet, error) {
	var missing []string
	if s.Tenure == nil {
		missing = append(missing, "tenure")
	}
	if s.VehicleAge == nil {
		missing = append(missing, "vehicle age")
	}
	if s.HolderAge == nil {
		missing = append(missing, "holder age")
	}
	if s.AreaCluster == nil {
		missing = append(missing, "area cluster")
	}
	if s.FuelType == nil {
		missing = append(missing, "fuel type")
	}
	if len(missing) > 0 {
		return InputSet{}, fmt.Errorf("%w: missing %v", ErrInvalidSubmission, missing)
	}
	numbers := []struct {
		name string
		v    float64
	}{
		{"tenure", *s.Tenure},
		{"vehicle age", *s.VehicleAge},
		{"holder age", *s.HolderAge},
	}
	for _, n := range numbers {
		if math.IsNaN(n.v) || math.IsInf(n.v, 0) {
			return InputSet{}, fmt.Errorf("%w: %s is not a finite number", ErrInvalidSubmission, n.name)
		}
	}
	if !f.AreaCluster.Contains(*s.AreaCluster) {
		return InputSet{}, fmt.Errorf("%w: unknown area cluster %q", ErrInvalidSubmission, *s.AreaCluster)
	}
	if !f.FuelType.Contains(*s.FuelType) {
		return InputSet{}, fmt.Errorf("%w: unknown fuel type %q", ErrInvalidSubmission, *s.FuelType)
	}
	age := int(f.HolderAge.Clamp(math.Round(*s.HolderAge)))
	return InputSet{
		Tenure:          f.Tenure.Clamp(*s.Tenure),
		VehicleAge:      f.VehicleAge.Clamp(*s.VehicleAge),
		HolderAge:       age,
		HolderAgeScaled: ScaleHolderAge(age),
		AreaCluster:     *s.AreaCluster,
		FuelType:        *s.FuelType,
	}, nil
}

// ScaleHolderAge maps an age in years onto the model's [0.18, 1.00] encoding.
func ScaleHolderAge(age int) float64 {
	return float64(age) / 100
}
