package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MetadataFileName is the name of the provenance CSV written alongside
// the output directory.
const MetadataFileName = "animals_metadata.csv"

// Record is one provenance row of the metadata CSV.
type Record struct {
	Filename  string
	SourceURL string
	License   string
	Artist    string
	Credit    string
}

// MetadataPathFor returns the CSV path for an output directory. The
// file lives in the parent of the output directory so a re-run that
// wipes the images cannot take the provenance with it.
func MetadataPathFor(outputDir string) string {
	trimmed := strings.TrimRight(outputDir, "/")
	return filepath.Join(filepath.Dir(trimmed), MetadataFileName)
}

// MetadataWriter appends provenance rows to a CSV file as images are
// saved, so an interrupted run still leaves rows for everything that
// made it to disk.
type MetadataWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateMetadataCSV creates or truncates the CSV at path and writes the
// header row.
func CreateMetadataCSV(path string) (*MetadataWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata file: %w", err)
	}

	w := &MetadataWriter{
		file:   file,
		writer: csv.NewWriter(file),
	}

	header := []string{"filename", "source_url", "license", "artist", "credit"}
	if err := w.writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write metadata header: %w", err)
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write metadata header: %w", err)
	}

	return w, nil
}

// Append writes a single record and flushes it to disk.
func (w *MetadataWriter) Append(rec Record) error {
	row := []string{rec.Filename, rec.SourceURL, rec.License, rec.Artist, rec.Credit}
	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write metadata row: %w", err)
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to write metadata row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file.
func (w *MetadataWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
