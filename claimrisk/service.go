package claimrisk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baditaflorin/l"
)

// Observer receives one callback per scoring attempt.
type Observer interface {
	ObservePrediction(res Result)
	ObserveFailure(err error, elapsed time.Duration)
}

// Service is the process-wide, read-only facade over the loaded artifacts.
type Service struct {
	cfg    Config
	store  *Store
	runner *Runner
	stats  Stats

	observer Observer
	logger   l.Logger
}

// OpenService loads every artifact described by cfg and builds a service.
func OpenService(ctx context.Context, cfg Config, logger l.Logger) (*Service, error) {
	cfg.ApplyDefaults()
	store, err := LoadStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	svc, err := NewService(store, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return svc, nil
}

// NewService wraps an already loaded store.
func NewService(store *Store, cfg Config, logger l.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	cfg.ApplyDefaults()
	runner, err := NewRunner(store.Template, store.Classifier, store.Columns)
	if err != nil {
		return nil, err
	}
	stats, err := ComputeStats(store.Dataset, store.Columns)
	if err != nil {
		return nil, fmt.Errorf("compute stats: %w", err)
	}
	return &Service{
		cfg:    cfg,
		store:  store,
		runner: runner,
		stats:  stats,
		logger: logger,
	}, nil
}

// SetObserver installs a hook notified after every scoring attempt. Call it
// before the service is shared.
func (s *Service) SetObserver(o Observer) {
	s.observer = o
}

// Close releases the classifier.
func (s *Service) Close() error {
	return s.store.Close()
}

// Config returns a copy of the configuration the service was built with.
func (s *Service) Config() Config {
	return s.cfg.Clone()
}

// Options returns the form domains.
func (s *Service) Options() Form {
	return s.store.Form
}

// Defaults returns a submission holding every default value.
func (s *Service) Defaults() Submission {
	return s.store.Form.Defaults()
}

// Predict validates a submission and scores it. Form errors wrap
// ErrInvalidSubmission and never reach the classifier.
func (s *Service) Predict(ctx context.Context, sub Submission) (Result, error) {
	in, err := s.store.Form.Submit(sub)
	if err != nil {
		s.logf("Rejected submission", "error", err)
		return Result{}, err
	}
	return s.Score(ctx, in)
}

// Score runs inference on an already validated input set.
func (s *Service) Score(ctx context.Context, in InputSet) (Result, error) {
	start := time.Now()
	res, err := s.runner.Run(ctx, in)
	if err != nil {
		s.logError("Prediction failed", "error", err)
		if s.observer != nil {
			s.observer.ObserveFailure(err, time.Since(start))
		}
		return Result{}, err
	}
	s.logf("Prediction",
		"requestId", res.RequestID,
		"probability", res.Probability,
		"label", string(res.Label),
		"elapsed", res.Elapsed.String())
	if s.observer != nil {
		s.observer.ObservePrediction(res)
	}
	return res, nil
}

// Summary returns the dataset size, the historical claim rate and the model name.
func (s *Service) Summary() Summary {
	return Summarize(s.store.Dataset, s.cfg.Model.DisplayName)
}

// Stats returns the exploratory aggregates computed at construction.
func (s *Service) Stats() Stats {
	return s.stats
}

// Docs returns the project documentation markdown.
func (s *Service) Docs() string {
	return Documentation()
}

// ModelID returns the identifier of the loaded classifier.
func (s *Service) ModelID() string {
	return s.store.Classifier.ModelID()
}

// SchemaInferred reports whether the schema was derived from the dataset.
func (s *Service) SchemaInferred() bool {
	return s.store.SchemaInferred
}

func (s *Service) logf(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Info(msg, kv...)
	}
}

func (s *Service) logError(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Error(msg, kv...)
	}
}
