package claimrisk

import (
	"context"
	"errors"
	"fmt"

	"github.com/baditaflorin/l"
	"golang.org/x/sync/errgroup"
)

// Store holds the artifacts loaded once at startup. Nothing in it changes after
// LoadStore returns.
type Store struct {
	Dataset    *Dataset
	Schema     *Schema
	Classifier Classifier
	Template   Template
	Form       Form
	Columns    ColumnBindings
	// SchemaInferred is set when no schema file was configured.
	SchemaInferred bool
}

// LoadStore reads the dataset, the schema and the classifier concurrently and
// cross-checks them. Any failure is fatal for the caller.
func LoadStore(ctx context.Context, cfg Config, logger l.Logger) (*Store, error) {
	cfg.ApplyDefaults()
	var (
		ds     *Dataset
		schema *Schema
		clf    Classifier
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ds, err = ReadDataset(cfg.DataPath, cfg.Columns.Label)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		return nil
	})
	if cfg.SchemaPath != "" {
		g.Go(func() error {
			var err error
			schema, err = LoadSchema(cfg.SchemaPath)
			if err != nil {
				return fmt.Errorf("load schema: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		clf, err = OpenClassifier(cfg.Model)
		if err != nil {
			return fmt.Errorf("load classifier: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if clf != nil {
			_ = clf.Close()
		}
		return nil, err
	}
	st, err := assembleStore(ds, schema, clf, cfg.Columns, logger)
	if err != nil {
		_ = clf.Close()
		return nil, err
	}
	return st, nil
}

// NewStore assembles a store from artifacts that are already in memory. A nil
// schema is inferred from the dataset.
func NewStore(ds *Dataset, schema *Schema, clf Classifier, cols ColumnBindings, logger l.Logger) (*Store, error) {
	return assembleStore(ds, schema, clf, cols.withDefaults(), logger)
}

func assembleStore(ds *Dataset, schema *Schema, clf Classifier, cols ColumnBindings, logger l.Logger) (*Store, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if clf == nil {
		return nil, errors.New("classifier is required")
	}
	inferred := false
	if schema == nil {
		var err error
		schema, err = InferSchema(ds)
		if err != nil {
			return nil, fmt.Errorf("infer schema: %w", err)
		}
		inferred = true
		if logger != nil {
			logger.Warn("No schema file configured; inferred column kinds from the dataset",
				"columns", schema.Len())
		}
	}
	if err := ValidateDataset(ds, schema); err != nil {
		return nil, err
	}
	if err := clf.CheckSchema(schema); err != nil {
		return nil, fmt.Errorf("classifier %s: %w", clf.ModelID(), err)
	}
	template, err := BuildTemplate(ds, schema)
	if err != nil {
		return nil, err
	}
	if err := cols.CheckSchema(schema); err != nil {
		if inferred {
			return nil, fmt.Errorf("%w (declare the column in a schema file)", err)
		}
		return nil, err
	}
	form, err := NewForm(ds, cols)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("Artifacts loaded",
			"rows", ds.Len(),
			"columns", schema.Len(),
			"model", clf.ModelID(),
			"schemaInferred", inferred)
	}
	return &Store{
		Dataset:        ds,
		Schema:         schema,
		Classifier:     clf,
		Template:       template,
		Form:           form,
		Columns:        cols,
		SchemaInferred: inferred,
	}, nil
}

// ValidateDataset checks the dataset's feature columns against the schema and
// parses every cell. The first bad cell is reported with its record number.
func ValidateDataset(ds *Dataset, schema *Schema) error {
	if err := schema.CheckColumns(ds.FeatureColumns()); err != nil {
		return fmt.Errorf("dataset columns: %w", err)
	}
	names := schema.Names()
	for i, name := range names {
		values, err := ds.Values(name)
		if err != nil {
			return err
		}
		for r, raw := range values {
			if _, err := schema.ParseValue(i, raw); err != nil {
				return fmt.Errorf("%w: record %d: %v", ErrSchemaMismatch, r+1, err)
			}
		}
	}
	return nil
}

// Close releases the classifier.
func (s *Store) Close() error {
	if s == nil || s.Classifier == nil {
		return nil
	}
	return s.Classifier.Close()
}
