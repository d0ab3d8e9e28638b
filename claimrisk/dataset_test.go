package claimrisk

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataset(t *testing.T) {
	ds := fixtureDataset(t)

	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, "is_claim", ds.LabelColumn())
	assert.Equal(t, []string{
		"policy_tenure", "age_of_car", "age_of_policyholder",
		"area_cluster", "fuel_type", "airbags", "segment",
	}, ds.FeatureColumns())
	assert.True(t, ds.HasColumn("policy_tenure"), "BOM must be stripped from the first header cell")
	assert.InDelta(t, 0.4, ds.ClaimRate(), 1e-12)

	clusters, err := ds.Distinct("area_cluster")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1", "C2", "C3"}, clusters)

	feats := ds.Features(0)
	assert.NotContains(t, feats, "is_claim")
	assert.Equal(t, "C1", feats["area_cluster"])
}

func TestParseDatasetErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		is    error
	}{
		{name: "empty file", input: "", want: "empty file"},
		{name: "header only", input: "a,is_claim\n", is: ErrEmptyDataset},
		{name: "missing label", input: "a,b\n1,2\n", want: `label column "is_claim" not found`},
		{name: "bad label", input: "a,is_claim\n1,2\n", want: "not 0 or 1"},
		{name: "short row", input: "a,is_claim\n1\n", want: "wrong number of fields"},
		{name: "duplicate header", input: "a,a,is_claim\n1,2,0\n", want: "appears twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataset(strings.NewReader(tt.input), ',', "is_claim")
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestReadDatasetTSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.tsv", "x\tarea_cluster\tis_claim\n1.5\tC9\t1\n")

	ds, err := ReadDataset(path, "is_claim")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.True(t, ds.Claim(0))

	_, err = ReadDataset(filepath.Join(dir, "missing.csv"), "is_claim")
	assert.Error(t, err)
}

func TestNormalizeCell(t *testing.T) {
	assert.Equal(t, "C1", NormalizeCell("\ufeff C1 "))
	assert.Equal(t, "ABC", NormalizeCell("ＡＢＣ"))
	assert.Equal(t, "ab", NormalizeCell("a\x00b"))
}
