package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestMetadataPathFor(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"./animals", "animals_metadata.csv"},
		{"animals", "animals_metadata.csv"},
		{"out/animals", "out/animals_metadata.csv"},
		{"/data/zoo/images", "/data/zoo/animals_metadata.csv"},
		{"/data/zoo/images/", "/data/zoo/animals_metadata.csv"},
	}

	for _, tt := range tests {
		if got := MetadataPathFor(tt.dir); got != tt.want {
			t.Errorf("MetadataPathFor(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestMetadataWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animals_metadata.csv")

	w, err := CreateMetadataCSV(path)
	if err != nil {
		t.Fatalf("Failed to create metadata CSV: %v", err)
	}

	records := []Record{
		{
			Filename:  "Lion_portrait.jpg",
			SourceURL: "https://upload.wikimedia.org/Lion_portrait.jpg",
			License:   "CC BY-SA 4.0",
			Artist:    "Jane Doe",
			Credit:    "Own work",
		},
		{
			Filename:  "Zebra,_Etosha.jpg",
			SourceURL: "https://upload.wikimedia.org/Zebra,_Etosha.jpg",
			License:   "CC0",
			Artist:    `Photographer "X"`,
			Credit:    "",
		},
	}
	for _, rec := range records {
		if err := w.Append(rec); err != nil {
			t.Fatalf("Failed to append record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Read back with a CSV reader so quoting of commas and quotes is
	// verified rather than assumed
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open written CSV: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse written CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d rows", len(rows))
	}

	header := []string{"filename", "source_url", "license", "artist", "credit"}
	for i, col := range header {
		if rows[0][i] != col {
			t.Errorf("Expected header column %d to be %q, got %q", i, col, rows[0][i])
		}
	}

	for i, rec := range records {
		row := rows[i+1]
		got := Record{
			Filename:  row[0],
			SourceURL: row[1],
			License:   row[2],
			Artist:    row[3],
			Credit:    row[4],
		}
		if got != rec {
			t.Errorf("Row %d = %+v, want %+v", i+1, got, rec)
		}
	}
}

func TestCreateMetadataCSVTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animals_metadata.csv")

	w, err := CreateMetadataCSV(path)
	if err != nil {
		t.Fatalf("Failed to create metadata CSV: %v", err)
	}
	if err := w.Append(Record{Filename: "old.jpg"}); err != nil {
		t.Fatalf("Failed to append record: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// A new run starts the file over
	w2, err := CreateMetadataCSV(path)
	if err != nil {
		t.Fatalf("Failed to recreate metadata CSV: %v", err)
	}
	if err := w2.Close(); err != nil {
		t.Fatalf("Failed to close second writer: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open written CSV: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse written CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected only the header after truncation, got %d rows", len(rows))
	}

	// Creating the CSV in a missing directory fails up front
	if _, err := CreateMetadataCSV(filepath.Join(t.TempDir(), "missing", "out.csv")); err == nil {
		t.Error("Expected error when parent directory is missing")
	}
}
