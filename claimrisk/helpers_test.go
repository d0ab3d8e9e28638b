package claimrisk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureCSV = "\ufeffpolicy_tenure,age_of_car,age_of_policyholder,area_cluster,fuel_type,airbags,segment,is_claim\n" +
	"0.51,0.05,0.64,C1,CNG,2,A,0\n" +
	"0.67,0.02,0.37,C2,Petrol,2,A,1\n" +
	"0.84,0.02,0.38,C3,Petrol,6,C2,0\n" +
	"0.90,0.11,0.43,C2,Diesel,6,C2,0\n" +
	"1.20,0.15,0.63,C1,Petrol,2,B1,1\n"

const fixtureSchema = `columns:
  - name: policy_tenure
    kind: numeric
  - name: age_of_car
    kind: numeric
  - name: age_of_policyholder
    kind: numeric
  - name: area_cluster
    kind: categorical
    levels: [C1, C2, C3]
  - name: fuel_type
    kind: categorical
    levels: [CNG, Petrol, Diesel]
  - name: airbags
    kind: numeric
  - name: segment
    kind: categorical
    levels: [A, B1, C2]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixtureDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := ParseDataset(strings.NewReader(fixtureCSV), ',', "is_claim")
	require.NoError(t, err)
	return ds
}

func fixtureSchemaValue(t *testing.T) *Schema {
	t.Helper()
	path := writeFile(t, t.TempDir(), "schema.yaml", fixtureSchema)
	s, err := LoadSchema(path)
	require.NoError(t, err)
	return s
}

// stubClassifier returns a fixed probability pair and records the last row.
type stubClassifier struct {
	mu      sync.Mutex
	probs   []float64
	err     error
	checkFn func(*Schema) error
	last    FeatureRow
	calls   int
	closed  bool
}

func newStub(p float64) *stubClassifier {
	return &stubClassifier{probs: []float64{1 - p, p}}
}

func (s *stubClassifier) PredictProba(ctx context.Context, row FeatureRow) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = row.Clone()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(s.probs))
	copy(out, s.probs)
	return out, nil
}

func (s *stubClassifier) CheckSchema(schema *Schema) error {
	if s.checkFn != nil {
		return s.checkFn(schema)
	}
	return nil
}

func (s *stubClassifier) ModelID() string { return "stub" }

func (s *stubClassifier) Close() error {
	s.closed = true
	return nil
}

func fixtureStore(t *testing.T, clf Classifier) *Store {
	t.Helper()
	st, err := NewStore(fixtureDataset(t), fixtureSchemaValue(t), clf, ColumnBindings{}, nil)
	require.NoError(t, err)
	return st
}

func ptr[T any](v T) *T {
	return &v
}
