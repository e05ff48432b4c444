package infrastructure

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file format")
	ErrExtraction      = errors.New("text extraction failed")
)

var documentExts = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// IsDocument reports whether name has an extension ExtractText handles.
func IsDocument(name string) bool {
	return documentExts[strings.ToLower(filepath.Ext(name))]
}

// DocumentExtractor reads plain text from pdf, docx and txt files.
type DocumentExtractor struct{}

func NewDocumentExtractor() *DocumentExtractor { return &DocumentExtractor{} }

func (e *DocumentExtractor) ExtractText(path string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDFText(path)
	case ".docx":
		text, err = extractDocxText(path)
	case ".txt":
		var b []byte
		b, err = os.ReadFile(path)
		text = string(b)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, filepath.Base(path), err)
	}
	return text, nil
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer r.Close()
	return docxPlainText(r.Editable().GetContent()), nil
}

// docxPlainText reduces WordprocessingML to text, one paragraph per line.
func docxPlainText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}
