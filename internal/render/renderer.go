package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-builder/internal/domain"
)

//go:embed templates/*.tmpl templates/style.css
var templateFS embed.FS

// PDFBackend turns a self-contained HTML document into PDF bytes.
type PDFBackend interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Assets names the optional image files inlined into documents.
type Assets struct {
	Dir    string
	Logo   string
	Bullet string
}

// Result describes a rendered document.
type Result struct {
	Path         string `json:"path"`
	TemplateUsed int    `json:"template_used"`
	FellBack     bool   `json:"fell_back"`
}

type Renderer struct {
	backend   PDFBackend
	registry  *Registry
	outputDir string
	tpl       *template.Template
	css       template.CSS
	logo      template.URL
	bullet    template.URL
	attempts  int
	delay     time.Duration
}

type Option func(*Renderer)

// WithRetry sets how many times a PDF conversion is attempted and the
// base delay between attempts. The delay doubles after each failure.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(r *Renderer) {
		if attempts > 0 {
			r.attempts = attempts
		}
		r.delay = delay
	}
}

func NewRenderer(backend PDFBackend, registry *Registry, outputDir string, assets Assets, opts ...Option) (*Renderer, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	tpl, err := template.New("documents").Funcs(template.FuncMap{
		"join":  strings.Join,
		"items": func(marker template.HTML, items []string) listView { return listView{Marker: marker, Items: items} },
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	css, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}

	r := &Renderer{
		backend:   backend,
		registry:  registry,
		outputDir: outputDir,
		tpl:       tpl,
		css:       template.CSS(css),
		attempts:  3,
		delay:     time.Second,
	}
	r.logo = inlineImage(assets.Dir, assets.Logo)
	r.bullet = inlineImage(assets.Dir, assets.Bullet)
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

func (r *Renderer) Registry() *Registry { return r.registry }

// RenderResume renders profile with the requested layout and writes
// <safe name>_Resume.pdf to the output directory.
func (r *Renderer) RenderResume(ctx context.Context, profile domain.CandidateProfile, templateID int) (Result, error) {
	layout, fellBack := r.lookup(templateID)
	res := Result{TemplateUsed: layout.ID, FellBack: fellBack}

	html, err := r.execute("resume", r.resumeView(profile, layout))
	if err != nil {
		return res, err
	}
	path, err := r.writePDF(ctx, html, SafeName(profile.Name)+"_Resume.pdf")
	if err != nil {
		return res, err
	}
	res.Path = path
	slog.Info("resume rendered", "path", path, "template", layout.ID)
	return res, nil
}

// RenderCoverLetter renders letter under the profile header of the
// requested layout and writes <safe name>_Cover_Letter.pdf.
func (r *Renderer) RenderCoverLetter(ctx context.Context, profile domain.CandidateProfile, letter string, templateID int) (Result, error) {
	layout, fellBack := r.lookup(templateID)
	res := Result{TemplateUsed: layout.ID, FellBack: fellBack}

	v := r.headerView(profile, layout)
	v.Paragraphs = Paragraphs(letter)
	html, err := r.execute("cover_letter", v)
	if err != nil {
		return res, err
	}
	path, err := r.writePDF(ctx, html, SafeName(profile.Name)+"_Cover_Letter.pdf")
	if err != nil {
		return res, err
	}
	res.Path = path
	slog.Info("cover letter rendered", "path", path, "template", layout.ID)
	return res, nil
}

func (r *Renderer) lookup(id int) (Layout, bool) {
	layout, fellBack := r.registry.Lookup(id)
	if fellBack {
		slog.Warn("unknown template id, using default", "requested", id, "used", layout.ID)
	}
	return layout, fellBack
}

func (r *Renderer) execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", name, err)
	}
	return buf.String(), nil
}

// writePDF converts html with retries and validates the output before
// writing it under the output directory. The returned path is absolute.
func (r *Renderer) writePDF(ctx context.Context, html, filename string) (string, error) {
	var pdfBytes []byte
	var renderErr error
	for i := 0; i < r.attempts; i++ {
		pdfBytes, renderErr = r.backend.RenderHTMLToPDF(ctx, html)
		if renderErr == nil {
			if isPDF(pdfBytes) {
				break
			}
			renderErr = fmt.Errorf("invalid PDF output (len=%d)", len(pdfBytes))
		}
		slog.Warn("render attempt failed", "attempt", i+1, "file", filename, "error", renderErr)
		if i < r.attempts-1 {
			backoff := r.delay * time.Duration(1<<i)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	if renderErr != nil {
		return "", fmt.Errorf("rendering failed after %d attempts: %w", r.attempts, renderErr)
	}
	return r.save(filename, pdfBytes)
}

func (r *Renderer) save(filename string, data []byte) (string, error) {
	path, err := r.outputPath(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return path, nil
}

// outputPath returns the absolute path of filename in the output
// directory, creating the directory when needed.
func (r *Renderer) outputPath(filename string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Join(r.outputDir, filename))
}

func isPDF(b []byte) bool {
	return len(b) > 0 && bytes.HasPrefix(b, []byte("%PDF"))
}

// inlineImage reads dir/name into a data URI. A missing file yields "".
func inlineImage(dir, name string) template.URL {
	if name == "" {
		return ""
	}
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		slog.Warn("asset not available", "file", name, "error", err)
		return ""
	}
	mime := http.DetectContentType(b)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b))
}
