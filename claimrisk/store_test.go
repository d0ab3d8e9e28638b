package claimrisk

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStoreWithLogisticModel(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DataPath:   writeFile(t, dir, "data.csv", fixtureCSV),
		SchemaPath: writeFile(t, dir, "schema.yaml", fixtureSchema),
		Model: ModelConfig{
			Kind: ModelLogistic,
			Path: writeFile(t, dir, "model.yaml", fixtureLogistic),
		},
	}
	st, err := LoadStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	assert.False(t, st.SchemaInferred)
	assert.Equal(t, 5, st.Dataset.Len())
	assert.Equal(t, "logistic-v1", st.Classifier.ModelID())
	assert.Equal(t, st.Schema.Names(), st.Template.Columns())
}

func TestLoadStoreInfersSchema(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DataPath: writeFile(t, dir, "data.csv", fixtureCSV),
		Model:    ModelConfig{Kind: ModelLogistic, Path: writeFile(t, dir, "model.yaml", fixtureLogistic)},
	}
	st, err := LoadStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.True(t, st.SchemaInferred)
}

func TestLoadStoreFailures(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.csv", fixtureCSV)
	schema := writeFile(t, dir, "schema.yaml", fixtureSchema)
	model := writeFile(t, dir, "model.yaml", fixtureLogistic)

	tests := []struct {
		name string
		cfg  Config
		is   error
	}{
		{"missing dataset", Config{
			DataPath: filepath.Join(dir, "nope.csv"), SchemaPath: schema,
			Model: ModelConfig{Kind: ModelLogistic, Path: model},
		}, nil},
		{"missing model", Config{
			DataPath: data, SchemaPath: schema,
			Model: ModelConfig{Kind: ModelLogistic, Path: filepath.Join(dir, "nope.yaml")},
		}, nil},
		{"empty dataset", Config{
			DataPath: writeFile(t, dir, "empty.csv", "a,is_claim\n"), SchemaPath: schema,
			Model: ModelConfig{Kind: ModelLogistic, Path: model},
		}, ErrEmptyDataset},
		{"schema diverges from dataset", Config{
			DataPath:   data,
			SchemaPath: writeFile(t, dir, "short.yaml", "columns:\n  - name: policy_tenure\n    kind: numeric\n"),
			Model:      ModelConfig{Kind: ModelLogistic, Path: model},
		}, ErrSchemaMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStore(context.Background(), tt.cfg, nil)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestValidateDatasetReportsBadCell(t *testing.T) {
	csv := strings.Replace(fixtureCSV, "0.84,0.02,0.38,C3", "0.84,0.02,0.38,C7", 1)
	ds, err := ParseDataset(strings.NewReader(csv), ',', "is_claim")
	require.NoError(t, err)

	err = ValidateDataset(ds, fixtureSchemaValue(t))
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "record 3")
	assert.Contains(t, err.Error(), `"C7"`)
}

func TestNewStoreClassifierMismatch(t *testing.T) {
	clf := newStub(0.1)
	clf.checkFn = func(*Schema) error { return ErrSchemaMismatch }
	_, err := NewStore(fixtureDataset(t), fixtureSchemaValue(t), clf, ColumnBindings{}, nil)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = NewStore(fixtureDataset(t), fixtureSchemaValue(t), nil, ColumnBindings{}, nil)
	assert.Error(t, err)
}

func TestNewStoreRejectsParameterColumnOfWrongKind(t *testing.T) {
	declared := strings.Replace(fixtureSchema,
		"  - name: policy_tenure\n    kind: numeric\n",
		"  - name: policy_tenure\n    kind: categorical\n    levels: [\"0.51\", \"0.67\", \"0.84\", \"0.90\", \"1.20\"]\n", 1)
	schema, err := LoadSchema(writeFile(t, t.TempDir(), "schema.yaml", declared))
	require.NoError(t, err)

	_, err = NewStore(fixtureDataset(t), schema, newStub(0.3), ColumnBindings{}, nil)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `"policy_tenure" must be numeric, schema declares categorical`)
}

func TestNewStoreRejectsInferredNumericCluster(t *testing.T) {
	csv := "policy_tenure,age_of_car,age_of_policyholder,area_cluster,fuel_type,is_claim\n" +
		"0.5,0.1,0.4,1,CNG,0\n" +
		"0.7,0.2,0.5,2,Petrol,1\n"
	ds, err := ParseDataset(strings.NewReader(csv), ',', "is_claim")
	require.NoError(t, err)

	clf := newStub(0.3)
	_, err = NewStore(ds, nil, clf, ColumnBindings{}, nil)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `"area_cluster" must be categorical, schema declares numeric`)
	assert.Zero(t, clf.calls)
}

func TestStoreCloseReleasesClassifier(t *testing.T) {
	clf := newStub(0.1)
	st := fixtureStore(t, clf)
	require.NoError(t, st.Close())
	assert.True(t, clf.closed)

	var nilStore *Store
	assert.NoError(t, nilStore.Close())
}
