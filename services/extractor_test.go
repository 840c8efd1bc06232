package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsSupportedFile(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"notes.txt", true},
		{"report.pdf", true},
		{"README.md", true},
		{"doc.markdown", true},
		{"plain.text", true},
		{"REPORT.PDF", true},
		{"image.png", false},
		{"archive.zip", false},
		{"noextension", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsSupportedFile(tc.filename); got != tc.want {
			t.Errorf("IsSupportedFile(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestExtractPagesTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "Line one of the notes.\nLine two of the notes."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	pages, err := ExtractPages(path)
	if err != nil {
		t.Fatalf("ExtractPages error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Page != 1 {
		t.Errorf("page number = %d, want 1", pages[0].Page)
	}
	if pages[0].Text != content {
		t.Errorf("extracted text = %q, want %q", pages[0].Text, content)
	}
}

func TestExtractPagesEmptyTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("   \n  "), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := ExtractPages(path); err == nil {
		t.Fatal("expected error for file with no extractable text")
	}
}

func TestExtractPagesUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := ExtractPages(path); err == nil {
		t.Fatal("expected error for unsupported file type")
	}
}

func TestExtractPagesMissingFile(t *testing.T) {
	if _, err := ExtractPages(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
