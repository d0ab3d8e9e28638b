package claimrisk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadDataset reads a CSV/TSV file whose header contains the label column.
func ReadDataset(path, labelColumn string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	ds, err := ParseDataset(f, comma, labelColumn)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// ParseDataset reads delimited records from r. The first record is the header.
func ParseDataset(r io.Reader, comma rune, labelColumn string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, err
	}
	header = NormalizeAll(header)
	if err := checkHeader(header); err != nil {
		return nil, err
	}
	label := findColumn(header, []string{labelColumn})
	if label < 0 {
		return nil, fmt.Errorf("label column %q not found", labelColumn)
	}
	var records [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.Reader reports field-count mismatches against the header here.
			return nil, err
		}
		records = append(records, NormalizeAll(row))
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return newDataset(header, label, records)
}

func checkHeader(header []string) error {
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		if name == "" {
			return fmt.Errorf("header column %d is empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("header column %q appears twice", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}
