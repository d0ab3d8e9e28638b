package claimrisk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchema(t *testing.T) {
	s := fixtureSchemaValue(t)

	assert.Equal(t, 7, s.Len())
	i, col, ok := s.Lookup("fuel_type")
	require.True(t, ok)
	assert.Equal(t, 4, i)
	assert.Equal(t, KindCategorical, col.Kind)

	code, ok := s.LevelIndex(i, "Diesel")
	require.True(t, ok)
	assert.Equal(t, 2, code)
	_, ok = s.LevelIndex(i, "Electric")
	assert.False(t, ok)
}

func TestLoadSchemaRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schema.yaml", "columns:\n  - name: a\n    kind: numeric\n    scale: 2\n")
	_, err := LoadSchema(path)
	assert.Error(t, err)
}

func TestNewSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		cols []Column
		want string
	}{
		{"empty", nil, "no columns"},
		{"unnamed", []Column{{Kind: KindNumeric}}, "has no name"},
		{"duplicate", []Column{{Name: "a", Kind: KindNumeric}, {Name: "a", Kind: KindNumeric}}, "declared twice"},
		{"numeric with levels", []Column{{Name: "a", Kind: KindNumeric, Levels: []string{"x"}}}, "must not declare levels"},
		{"categorical without levels", []Column{{Name: "a", Kind: KindCategorical}}, "declares no levels"},
		{"repeated level", []Column{{Name: "a", Kind: KindCategorical, Levels: []string{"x", "x"}}}, "repeats level"},
		{"unknown kind", []Column{{Name: "a", Kind: "text"}}, "unknown kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.cols)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCheckColumnsListsMissingAndExtra(t *testing.T) {
	s := fixtureSchemaValue(t)
	names := []string{"policy_tenure", "age_of_car", "age_of_policyholder", "area_cluster", "fuel_type", "make", "model"}

	err := s.CheckColumns(names)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "missing: airbags, segment")
	assert.Contains(t, err.Error(), "undeclared: make, model")

	assert.NoError(t, s.CheckColumns(s.Names()))
}

func TestInferSchema(t *testing.T) {
	s, err := InferSchema(fixtureDataset(t))
	require.NoError(t, err)

	_, tenure, _ := s.Lookup("policy_tenure")
	assert.Equal(t, KindNumeric, tenure.Kind)
	_, seg, _ := s.Lookup("segment")
	assert.Equal(t, KindCategorical, seg.Kind)
	assert.Equal(t, []string{"A", "C2", "B1"}, seg.Levels)
	_, _, ok := s.Lookup("is_claim")
	assert.False(t, ok)
}

func TestSaveSchemaRoundTrip(t *testing.T) {
	s := fixtureSchemaValue(t)
	path := filepath.Join(t.TempDir(), "nested", "schema.yaml")
	require.NoError(t, SaveSchema(path, s))

	loaded, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, s.Columns(), loaded.Columns())
}

func TestFeatureRowSetters(t *testing.T) {
	s := fixtureSchemaValue(t)
	row, err := NewFeatureRow(s, fixtureDataset(t).Features(0))
	require.NoError(t, err)

	require.NoError(t, row.SetNumber("policy_tenure", 1.5))
	v, _ := row.Get("policy_tenure")
	assert.Equal(t, 1.5, v.Number)

	assert.Error(t, row.SetNumber("area_cluster", 1), "wrong kind")
	assert.Error(t, row.SetNumber("engine", 1), "unknown column")
	assert.Error(t, row.SetCategory("area_cluster", "C99"), "undeclared level")
	assert.Equal(t, s.Names(), row.Columns())

	vec, err := row.Encode()
	require.NoError(t, err)
	require.Len(t, vec, 7)
	assert.Equal(t, float32(1.5), vec[0])
	assert.Equal(t, float32(0), vec[3]) // C1
	assert.Equal(t, float32(0), vec[4]) // CNG
}

func TestNewFeatureRowRejectsExtraColumns(t *testing.T) {
	s := fixtureSchemaValue(t)
	cells := fixtureDataset(t).Features(0)
	cells["make"] = "1"
	_, err := NewFeatureRow(s, cells)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
