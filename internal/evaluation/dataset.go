// Package evaluation measures profile-analysis accuracy against a
// labeled dataset of photos.
package evaluation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ProfileRecord is one labeled example: a photo plus the gender
// expression and style keywords a correct analysis should produce.
type ProfileRecord struct {
	ID             string   `json:"id" parquet:"id"`
	ImagePath      string   `json:"image_path" parquet:"image_path"`
	MimeType       string   `json:"mime_type" parquet:"mime_type"`
	ExpectedGender string   `json:"expected_gender" parquet:"expected_gender"`
	StyleKeywords  []string `json:"style_keywords" parquet:"style_keywords,list"`
}

// Loader handles loading of labeled profile datasets.
type Loader struct {
	datasetPath string
}

// NewLoader creates a loader for the given dataset file.
func NewLoader(datasetPath string) *Loader {
	return &Loader{datasetPath: datasetPath}
}

// Load loads records from a dataset file (JSONL or Parquet).
func (l *Loader) Load() ([]ProfileRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))

	switch ext {
	case ".parquet":
		return l.loadParquet()
	case ".jsonl", ".json":
		return l.loadJSONL()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func (l *Loader) loadJSONL() ([]ProfileRecord, error) {
	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []ProfileRecord
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record ProfileRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL dataset", "total_records", len(records))
	return records, nil
}

func (l *Loader) loadParquet() ([]ProfileRecord, error) {
	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[ProfileRecord](pf)
	defer reader.Close()

	var records []ProfileRecord
	rows := make([]ProfileRecord, 128)

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet dataset", "total_records", len(records))
	return records, nil
}
