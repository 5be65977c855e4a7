package evaluation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.jsonl")
	content := `{"id": "r1", "image_path": "photos/r1.jpg", "expected_gender": "female", "style_keywords": ["minimalist", "monochrome"]}

{"id": "r2", "image_path": "photos/r2.jpg", "mime_type": "image/png", "expected_gender": "male"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records (blank lines skipped), got %d", len(records))
	}
	if records[0].ID != "r1" || len(records[0].StyleKeywords) != 2 {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[1].MimeType != "image/png" {
		t.Errorf("Expected mime type preserved, got %q", records[1].MimeType)
	}
}

func TestLoadRejectsMalformedJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jsonl")
	if err := os.WriteFile(path, []byte("{not json}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for malformed line")
	}
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	if _, err := NewLoader("dataset.csv").Load(); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}
