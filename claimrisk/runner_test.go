package claimrisk

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRunner(t *testing.T, clf Classifier) (*Runner, *Store) {
	t.Helper()
	st := fixtureStore(t, clf)
	r, err := NewRunner(st.Template, clf, st.Columns)
	require.NoError(t, err)
	return r, st
}

func TestMergeOverlaysOnlyParameters(t *testing.T) {
	r, st := fixtureRunner(t, newStub(0.2))
	in := InputSet{Tenure: 1.1, VehicleAge: 0.3, HolderAge: 50, HolderAgeScaled: 0.5, AreaCluster: "C3", FuelType: "Diesel"}

	row, err := r.Merge(in)
	require.NoError(t, err)
	assert.Equal(t, st.Template.Columns(), row.Columns())

	cells := row.Cells()
	assert.Equal(t, "1.1", cells["policy_tenure"])
	assert.Equal(t, "0.3", cells["age_of_car"])
	assert.Equal(t, "0.5", cells["age_of_policyholder"])
	assert.Equal(t, "C3", cells["area_cluster"])
	assert.Equal(t, "Diesel", cells["fuel_type"])
	assert.Equal(t, "2", cells["airbags"])
	assert.Equal(t, "A", cells["segment"])

	// The template itself is untouched.
	base := st.Template.Row().Cells()
	assert.Equal(t, "C1", base["area_cluster"])
	assert.Equal(t, "0.51", base["policy_tenure"])
}

func TestRunThreshold(t *testing.T) {
	tests := []struct {
		p    float64
		want RiskLabel
	}{
		{0.73, HighRisk},
		{0.20, LowRisk},
		{0.5, LowRisk},
		{0.5000001, HighRisk},
		{0, LowRisk},
		{1, HighRisk},
	}
	for _, tt := range tests {
		r, st := fixtureRunner(t, newStub(tt.p))
		in, err := st.Form.Submit(st.Form.Defaults())
		require.NoError(t, err)

		res, err := r.Run(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Label, "p=%v", tt.p)
		assert.Equal(t, tt.p, res.Probability)
		assert.Equal(t, "stub", res.ModelID)
		assert.NotEmpty(t, res.RequestID)
		assert.Equal(t, in, res.Inputs)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	r, st := fixtureRunner(t, newStub(0.42))
	in, err := st.Form.Submit(st.Form.Defaults())
	require.NoError(t, err)

	a, err := r.Run(context.Background(), in)
	require.NoError(t, err)
	b, err := r.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, a.Probability, b.Probability)
	assert.Equal(t, a.Label, b.Label)
	assert.NotEqual(t, a.RequestID, b.RequestID)
}

func TestRunFailuresWrapErrScoring(t *testing.T) {
	boom := errors.New("session crashed")
	tests := []struct {
		name string
		clf  *stubClassifier
		in   func(InputSet) InputSet
	}{
		{"classifier error", &stubClassifier{err: boom}, nil},
		{"single probability", &stubClassifier{probs: []float64{0.3}}, nil},
		{"nan", &stubClassifier{probs: []float64{0.5, math.NaN()}}, nil},
		{"above one", &stubClassifier{probs: []float64{-0.2, 1.2}}, nil},
		{"unknown level", newStub(0.3), func(in InputSet) InputSet { in.AreaCluster = "C99"; return in }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, st := fixtureRunner(t, tt.clf)
			in, err := st.Form.Submit(st.Form.Defaults())
			require.NoError(t, err)
			if tt.in != nil {
				in = tt.in(in)
			}
			res, err := r.Run(context.Background(), in)
			require.ErrorIs(t, err, ErrScoring)
			assert.Equal(t, Result{}, res)
		})
	}
}

func TestRunKeepsClassifierCause(t *testing.T) {
	boom := errors.New("session crashed")
	r, st := fixtureRunner(t, &stubClassifier{err: boom})
	in, err := st.Form.Submit(st.Form.Defaults())
	require.NoError(t, err)

	_, err = r.Run(context.Background(), in)
	assert.ErrorIs(t, err, boom)
}

func TestRunCancelledContext(t *testing.T) {
	r, st := fixtureRunner(t, newStub(0.9))
	in, err := st.Form.Submit(st.Form.Defaults())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, in)
	assert.ErrorIs(t, err, ErrScoring)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerRejectsMissingColumn(t *testing.T) {
	st := fixtureStore(t, newStub(0.1))
	cols := st.Columns
	cols.FuelType = "fuel"
	_, err := NewRunner(st.Template, st.Classifier, cols)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	cols = st.Columns
	cols.AreaCluster = "airbags"
	_, err = NewRunner(st.Template, st.Classifier, cols)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `"airbags" must be categorical`)

	_, err = NewRunner(st.Template, nil, st.Columns)
	assert.Error(t, err)
}
