package claimrisk

import "errors"

var (
	// ErrEmptyDataset is returned when the dataset has a header but no records.
	ErrEmptyDataset = errors.New("dataset has no records")
	// ErrSchemaMismatch is returned when dataset, schema and classifier disagree on columns.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInvalidSubmission is returned when a form submission is incomplete or out of domain.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrScoring is returned when the classifier cannot score a row.
	ErrScoring = errors.New("scoring failed")
)
