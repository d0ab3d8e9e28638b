package claimrisk

import (
	"context"
	"fmt"
)

// Classifier is the opaque scoring collaborator. PredictProba returns the
// two-class probability pair [no claim, claim] for a single row.
type Classifier interface {
	PredictProba(ctx context.Context, row FeatureRow) ([]float64, error)
	CheckSchema(schema *Schema) error
	ModelID() string
	Close() error
}

// OpenClassifier loads the classifier artifact described by cfg.
func OpenClassifier(cfg ModelConfig) (Classifier, error) {
	switch cfg.Kind {
	case ModelONNX:
		return NewOrtClassifier(cfg)
	case ModelLogistic:
		return LoadLogisticClassifier(cfg.Path, cfg.ModelID)
	default:
		return nil, fmt.Errorf("unknown model kind %q", cfg.Kind)
	}
}
