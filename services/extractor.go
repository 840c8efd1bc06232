package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageText is one page of extracted plain text.
type PageText struct {
	Page int
	Text string
}

// supportedExtensions maps a lowercase file extension to whether the
// extractor can handle it.
var supportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

// IsSupportedFile reports whether the filename has an extractable
// extension.
func IsSupportedFile(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ExtractPages turns an uploaded file into page-segmented plain text.
// PDFs yield one entry per page; plain text and markdown files are a
// single page.
func ExtractPages(path string) ([]PageText, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	if ext == ".pdf" {
		return extractPDFPages(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, fmt.Errorf("file contains no extractable text")
	}

	return []PageText{{Page: 1, Text: text}}, nil
}

func extractPDFPages(path string) ([]PageText, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var pages []PageText
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			// Skip unreadable pages rather than failing the whole file.
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, PageText{Page: i, Text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable text found in PDF")
	}

	return pages, nil
}
