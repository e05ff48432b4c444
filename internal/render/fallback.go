package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"resume-builder/internal/domain"

	"github.com/go-pdf/fpdf"
)

const (
	ResumeErrorFile      = "Error_Resume.pdf"
	CoverLetterErrorFile = "Error_Cover_Letter.pdf"
)

type errorView struct {
	Title string
	Lines []string
}

// ResumeError writes a one-page notice in place of a resume that could not
// be rendered. A path is returned unless the file itself cannot be written.
func (r *Renderer) ResumeError(ctx context.Context, name string, cause error) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = domain.DefaultName
	}
	v := errorView{
		Title: Sanitize(name),
		Lines: []string{
			"An error occurred while generating the complete resume.",
			"Error details: " + Sanitize(errText(cause)),
			"Please try again or contact support if the issue persists.",
		},
	}
	return r.writeNotice(ctx, v, ResumeErrorFile)
}

// CoverLetterError is the cover letter counterpart of ResumeError.
func (r *Renderer) CoverLetterError(ctx context.Context, name string, cause error) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = domain.DefaultName
	}
	v := errorView{
		Title: Sanitize(name) + " - Cover Letter Error",
		Lines: []string{
			"An error occurred while generating the cover letter.",
			"Error details: " + Sanitize(errText(cause)),
		},
	}
	return r.writeNotice(ctx, v, CoverLetterErrorFile)
}

func (r *Renderer) writeNotice(ctx context.Context, v errorView, filename string) (string, error) {
	html, err := r.execute("error", v)
	if err == nil {
		var pdfBytes []byte
		pdfBytes, err = r.backend.RenderHTMLToPDF(ctx, html)
		if err == nil && isPDF(pdfBytes) {
			return r.save(filename, pdfBytes)
		}
		if err == nil {
			err = fmt.Errorf("invalid PDF output (len=%d)", len(pdfBytes))
		}
	}
	slog.Warn("pdf backend unavailable for error notice, writing plain pdf", "file", filename, "error", err)

	path, err := r.outputPath(filename)
	if err != nil {
		return "", err
	}
	if err := writePlainNotice(path, v); err != nil {
		return "", fmt.Errorf("write plain pdf: %w", err)
	}
	return path, nil
}

// writePlainNotice lays the notice out with the core Helvetica fonts.
// Long text wraps and continues on a new page when it runs past the
// bottom margin.
func writePlainNotice(path string, v errorView) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(v.Title, false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 10, tr(v.Title), "", "L", false)
	doc.Ln(4)
	doc.SetFont("Helvetica", "", 11)
	for _, l := range v.Lines {
		doc.MultiCell(0, 6, tr(l), "", "L", false)
		doc.Ln(2)
	}
	return doc.OutputFileAndClose(path)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
