package claimrisk

import (
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary is the business context shown above the predictor.
type Summary struct {
	Rows      int     `json:"rows"`
	RowsText  string  `json:"rowsText"`
	ClaimRate float64 `json:"claimRate"`
	RateText  string  `json:"claimRateText"`
	Model     string  `json:"model"`
}

// ClusterClaims counts records of one area cluster by outcome.
type ClusterClaims struct {
	Cluster  string `json:"cluster"`
	Claims   int    `json:"claims"`
	NoClaims int    `json:"noClaims"`
}

// Total returns the number of records in the cluster.
func (c ClusterClaims) Total() int {
	return c.Claims + c.NoClaims
}

// BoxStats is a five-number summary.
type BoxStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// TenureStats splits the tenure distribution by outcome.
type TenureStats struct {
	NoClaim BoxStats `json:"noClaim"`
	Claim   BoxStats `json:"claim"`
}

// Stats groups the exploratory aggregates.
type Stats struct {
	ClaimsByCluster []ClusterClaims `json:"claimsByCluster"`
	Tenure          TenureStats     `json:"tenure"`
}

var printer = message.NewPrinter(language.English)

// Summarize computes the row count, the claim rate and the model name.
func Summarize(ds *Dataset, modelName string) Summary {
	rate := ds.ClaimRate()
	return Summary{
		Rows:      ds.Len(),
		RowsText:  printer.Sprintf("%d rows", ds.Len()),
		ClaimRate: rate,
		RateText:  FormatProbability(rate),
		Model:     modelName,
	}
}

// ClaimsByCluster counts claims and non-claims per area cluster, clusters in
// first-appearance order.
func ClaimsByCluster(ds *Dataset, clusterColumn string) ([]ClusterClaims, error) {
	values, err := ds.Values(clusterColumn)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int)
	var out []ClusterClaims
	for i, v := range values {
		j, ok := pos[v]
		if !ok {
			j = len(out)
			pos[v] = j
			out = append(out, ClusterClaims{Cluster: v})
		}
		if ds.Claim(i) {
			out[j].Claims++
		} else {
			out[j].NoClaims++
		}
	}
	return out, nil
}

// TenureByOutcome summarizes the tenure column separately for each outcome.
func TenureByOutcome(ds *Dataset, tenureColumn string) (TenureStats, error) {
	values, err := ds.Values(tenureColumn)
	if err != nil {
		return TenureStats{}, err
	}
	var claim, noClaim []float64
	for i, raw := range values {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return TenureStats{}, fmt.Errorf("column %q record %d: %q is not a number", tenureColumn, i+1, raw)
		}
		if ds.Claim(i) {
			claim = append(claim, f)
		} else {
			noClaim = append(noClaim, f)
		}
	}
	return TenureStats{NoClaim: Box(noClaim), Claim: Box(claim)}, nil
}

// ComputeStats builds every exploratory aggregate.
func ComputeStats(ds *Dataset, cols ColumnBindings) (Stats, error) {
	cols = cols.withDefaults()
	clusters, err := ClaimsByCluster(ds, cols.AreaCluster)
	if err != nil {
		return Stats{}, err
	}
	tenure, err := TenureByOutcome(ds, cols.Tenure)
	if err != nil {
		return Stats{}, err
	}
	return Stats{ClaimsByCluster: clusters, Tenure: tenure}, nil
}

// Box returns the five-number summary of values. Quartiles use linear
// interpolation between closest ranks.
func Box(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return BoxStats{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
