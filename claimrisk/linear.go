package claimrisk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LogisticModel is the YAML form of a logistic regression artifact. Numeric
// weights multiply the column value; categorical weights are looked up per level,
// absent levels contribute nothing.
type LogisticModel struct {
	ModelID     string                        `yaml:"modelId"`
	Columns     []string                      `yaml:"columns"`
	Intercept   float64                       `yaml:"intercept"`
	Numeric     map[string]float64            `yaml:"numeric"`
	Categorical map[string]map[string]float64 `yaml:"categorical"`
}

// LogisticClassifier scores rows with a LogisticModel.
type LogisticClassifier struct {
	model LogisticModel
}

// LoadLogisticClassifier reads a logistic model file.
func LoadLogisticClassifier(path, modelID string) (*LogisticClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", filepath.Base(path), err)
	}
	var m LogisticModel
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", filepath.Base(path), err)
	}
	if modelID != "" {
		m.ModelID = modelID
	}
	if m.ModelID == "" {
		m.ModelID = filepath.Base(path)
	}
	return NewLogisticClassifier(m)
}

// NewLogisticClassifier validates the model's internal consistency.
func NewLogisticClassifier(m LogisticModel) (*LogisticClassifier, error) {
	if len(m.Columns) == 0 {
		return nil, errors.New("logistic model declares no columns")
	}
	declared := make(map[string]struct{}, len(m.Columns))
	for _, c := range m.Columns {
		declared[c] = struct{}{}
	}
	for name := range m.Numeric {
		if _, ok := declared[name]; !ok {
			return nil, fmt.Errorf("numeric weight for undeclared column %q", name)
		}
	}
	for name := range m.Categorical {
		if _, ok := declared[name]; !ok {
			return nil, fmt.Errorf("categorical weights for undeclared column %q", name)
		}
		if _, dup := m.Numeric[name]; dup {
			return nil, fmt.Errorf("column %q has numeric and categorical weights", name)
		}
	}
	return &LogisticClassifier{model: m}, nil
}

// ModelID returns the identifier of the loaded artifact.
func (c *LogisticClassifier) ModelID() string {
	return c.model.ModelID
}

// CheckSchema verifies the model was trained on exactly the schema's columns and
// that every weight targets a column of the matching kind.
func (c *LogisticClassifier) CheckSchema(schema *Schema) error {
	if err := schema.CheckColumns(c.model.Columns); err != nil {
		return err
	}
	for name := range c.model.Numeric {
		if _, col, _ := schema.Lookup(name); col.Kind != KindNumeric {
			return fmt.Errorf("%w: model treats %q as numeric, schema declares %s", ErrSchemaMismatch, name, col.Kind)
		}
	}
	for name, levels := range c.model.Categorical {
		i, col, _ := schema.Lookup(name)
		if col.Kind != KindCategorical {
			return fmt.Errorf("%w: model treats %q as categorical, schema declares %s", ErrSchemaMismatch, name, col.Kind)
		}
		for level := range levels {
			if _, ok := schema.LevelIndex(i, level); !ok {
				return fmt.Errorf("%w: model weights undeclared level %q of %q", ErrSchemaMismatch, level, name)
			}
		}
	}
	return nil
}

// PredictProba returns [1-p, p] where p is the logistic of the linear score.
func (c *LogisticClassifier) PredictProba(ctx context.Context, row FeatureRow) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	z := c.model.Intercept
	// Sum in declared column order so repeated calls are bit-for-bit identical.
	for _, name := range c.model.Columns {
		if w, ok := c.model.Numeric[name]; ok {
			v, ok := row.Get(name)
			if !ok || v.Kind != KindNumeric {
				return nil, fmt.Errorf("row has no numeric column %q", name)
			}
			z += w * v.Number
			continue
		}
		if weights, ok := c.model.Categorical[name]; ok {
			v, ok := row.Get(name)
			if !ok || v.Kind != KindCategorical {
				return nil, fmt.Errorf("row has no categorical column %q", name)
			}
			z += weights[v.Text]
		}
	}
	p := 1 / (1 + math.Exp(-z))
	return []float64{1 - p, p}, nil
}

// Close is a no-op; the model lives entirely in memory.
func (c *LogisticClassifier) Close() error {
	return nil
}
