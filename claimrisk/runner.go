package claimrisk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Runner merges user inputs into the template and scores the result.
type Runner struct {
	template   Template
	classifier Classifier
	cols       ColumnBindings
}

// NewRunner binds a template, a classifier and the parameter columns.
func NewRunner(template Template, classifier Classifier, cols ColumnBindings) (*Runner, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	cols = cols.withDefaults()
	if err := cols.CheckSchema(template.Row().Schema()); err != nil {
		return nil, err
	}
	return &Runner{template: template, classifier: classifier, cols: cols}, nil
}

// Merge copies the template and overwrites the five parameter columns.
func (r *Runner) Merge(in InputSet) (FeatureRow, error) {
	row := r.template.Row()
	if err := row.SetNumber(r.cols.Tenure, in.Tenure); err != nil {
		return FeatureRow{}, err
	}
	if err := row.SetNumber(r.cols.VehicleAge, in.VehicleAge); err != nil {
		return FeatureRow{}, err
	}
	if err := row.SetNumber(r.cols.HolderAge, in.HolderAgeScaled); err != nil {
		return FeatureRow{}, err
	}
	if err := row.SetCategory(r.cols.AreaCluster, in.AreaCluster); err != nil {
		return FeatureRow{}, err
	}
	if err := row.SetCategory(r.cols.FuelType, in.FuelType); err != nil {
		return FeatureRow{}, err
	}
	return row, nil
}

// Run scores a single input set. Every failure wraps ErrScoring.
func (r *Runner) Run(ctx context.Context, in InputSet) (Result, error) {
	start := time.Now()
	row, err := r.Merge(in)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrScoring, err)
	}
	probs, err := r.classifier.PredictProba(ctx, row)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrScoring, err)
	}
	if len(probs) != 2 {
		return Result{}, fmt.Errorf("%w: classifier returned %d class probabilities, want 2", ErrScoring, len(probs))
	}
	p := probs[1]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Result{}, fmt.Errorf("%w: claim probability %v outside [0,1]", ErrScoring, p)
	}
	return Result{
		RequestID:   uuid.NewString(),
		Probability: p,
		Label:       Classify(p),
		Inputs:      in,
		ModelID:     r.classifier.ModelID(),
		Elapsed:     time.Since(start),
	}, nil
}
