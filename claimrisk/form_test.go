package claimrisk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureForm(t *testing.T) Form {
	t.Helper()
	f, err := NewForm(fixtureDataset(t), DefaultColumnBindings())
	require.NoError(t, err)
	return f
}

func TestNewFormOptions(t *testing.T) {
	f := fixtureForm(t)

	assert.Equal(t, []string{"C1", "C2", "C3"}, f.AreaCluster.Options)
	assert.Equal(t, "C1", f.AreaCluster.Default)
	assert.Equal(t, []string{"CNG", "Petrol", "Diesel"}, f.FuelType.Options)
	assert.Equal(t, "CNG", f.FuelType.Default)
	assert.Equal(t, NumericDomain{Min: 0, Max: 2, Default: 0.5, Step: 0.01}, f.Tenure)
	assert.Equal(t, 35.0, f.HolderAge.Default)
}

func TestSubmitDefaults(t *testing.T) {
	f := fixtureForm(t)
	in, err := f.Submit(f.Defaults())
	require.NoError(t, err)

	assert.Equal(t, InputSet{
		Tenure:          0.5,
		VehicleAge:      0.1,
		HolderAge:       35,
		HolderAgeScaled: 0.35,
		AreaCluster:     "C1",
		FuelType:        "CNG",
	}, in)
}

func TestSubmitClampsNumbers(t *testing.T) {
	f := fixtureForm(t)
	tests := []struct {
		name          string
		tenure, car   float64
		age           float64
		wantTenure    float64
		wantCar       float64
		wantAge       int
		wantAgeScaled float64
	}{
		{"in range", 1.2, 0.4, 40, 1.2, 0.4, 40, 0.40},
		{"below", -1, -0.5, 3, 0, 0, 18, 0.18},
		{"above", 5, 3, 250, 2, 1, 100, 1.00},
		{"rounded age", 0.5, 0.1, 44.6, 0.5, 0.1, 45, 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := f.Defaults()
			sub.Tenure = ptr(tt.tenure)
			sub.VehicleAge = ptr(tt.car)
			sub.HolderAge = ptr(tt.age)
			in, err := f.Submit(sub)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTenure, in.Tenure)
			assert.Equal(t, tt.wantCar, in.VehicleAge)
			assert.Equal(t, tt.wantAge, in.HolderAge)
			assert.InDelta(t, tt.wantAgeScaled, in.HolderAgeScaled, 1e-12)
		})
	}
}

func TestSubmitRejectsWholeSubmission(t *testing.T) {
	f := fixtureForm(t)
	tests := []struct {
		name   string
		mutate func(*Submission)
		want   string
	}{
		{"missing tenure", func(s *Submission) { s.Tenure = nil }, "missing [tenure]"},
		{"missing two", func(s *Submission) { s.AreaCluster = nil; s.FuelType = nil }, "missing [area cluster fuel type]"},
		{"nan", func(s *Submission) { s.VehicleAge = ptr(math.NaN()) }, "vehicle age is not a finite number"},
		{"inf", func(s *Submission) { s.HolderAge = ptr(math.Inf(1)) }, "holder age is not a finite number"},
		{"unknown cluster", func(s *Submission) { s.AreaCluster = ptr("C42") }, `unknown area cluster "C42"`},
		{"unknown fuel", func(s *Submission) { s.FuelType = ptr("Electric") }, `unknown fuel type "Electric"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := f.Defaults()
			tt.mutate(&sub)
			in, err := f.Submit(sub)
			require.ErrorIs(t, err, ErrInvalidSubmission)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, InputSet{}, in)
		})
	}
}

func TestScaleHolderAge(t *testing.T) {
	assert.InDelta(t, 0.18, ScaleHolderAge(18), 1e-12)
	assert.InDelta(t, 1.00, ScaleHolderAge(100), 1e-12)
}
