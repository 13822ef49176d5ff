package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cian-offices-scraper/models"
)

// ErrNoData is returned when there is nothing to write. No file is created.
var ErrNoData = errors.New("no offers to write")

// CSVWriter writes the whole result set to one CSV file at the end of a run.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Path() string {
	return w.path
}

// Write creates (or truncates) the file and writes a header row followed by
// one row per offer. Columns are always models.OfferColumns.
func (w *CSVWriter) Write(offers []*models.Offer) (err error) {
	if len(offers) == 0 {
		return ErrNoData
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", w.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("csv: close file %q: %w", w.path, cerr)
		}
	}()

	cw := csv.NewWriter(f)

	if err := cw.Write(models.OfferColumns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, o := range offers {
		if err := cw.Write(o.Row()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}
