package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	noSkillMatrixMessage    = "No skill matrix data loaded. Please upload a skill matrix file first."
	spreadsheetOnlyMessage  = "Only Excel .xlsx files are allowed (legacy .xls is not supported)"
	templateNotFoundMessage = "Template file not found. Please upload a template first."
)

type Options struct {
	UploadDir   string
	OutputDir   string
	MaxFileSize int64
}

type Handler struct {
	processor *usecase.Processor
	skills    *usecase.SkillMatrixStore
	loader    usecase.SkillMatrixLoader
	mailer    *usecase.ApplicationMailer
	layouts   *render.Registry
	opts      Options
}

func NewHandler(p *usecase.Processor, skills *usecase.SkillMatrixStore, loader usecase.SkillMatrixLoader,
	mailer *usecase.ApplicationMailer, layouts *render.Registry, opts Options) *Handler {
	return &Handler{processor: p, skills: skills, loader: loader, mailer: mailer, layouts: layouts, opts: opts}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	upload := app.Group("/upload")
	upload.Post("/template", h.UploadDocument("template"))
	upload.Post("/resume", h.UploadDocument("resume"))
	upload.Post("/cover-letter", h.UploadDocument("cover letter"))
	upload.Post("/skill-matrix", h.UploadSkillMatrix)
	upload.Post("/extract-employees", h.ExtractEmployees)

	search := app.Group("/search")
	search.Post("/by-id", h.SearchByID)
	search.Post("/by-name", h.SearchByName)
	search.Get("/employees/list", h.ListEmployees)

	gen := app.Group("/generate")
	gen.Post("/", h.Generate)
	gen.Post("/resume", h.Generate)
	gen.Get("/templates", h.Templates)
	gen.Get("/download/:filename", h.Download)
	gen.Get("/runs", h.Runs)

	app.Post("/email/send-application", h.SendApplication)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// UploadDocument accepts a pdf, docx or txt file under the "file" field.
func (h *Handler) UploadDocument(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
		}
		if !infra.IsDocument(fh.Filename) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only PDF, DOCX, and TXT files are allowed for the " + kind})
		}
		path, status, err := h.saveUpload(c, fh)
		if err != nil {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"file_path": path, "filename": fh.Filename})
	}
}

func (h *Handler) UploadSkillMatrix(c *fiber.Ctx) error {
	path, groups, status, err := h.loadWorkbook(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	snap, err := h.skills.Put(c.UserContext(), c.FormValue("session_id"), path, groups)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"file_path":  path,
		"session_id": snap.SessionID,
		"version":    snap.Version,
		"sheets":     len(groups),
		"records":    domain.CountRecords(groups),
	})
}

func (h *Handler) ExtractEmployees(c *fiber.Ctx) error {
	_, groups, status, err := h.loadWorkbook(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(domain.Employees(groups))
}

func (h *Handler) loadWorkbook(c *fiber.Ctx) (string, []domain.SheetGroup, int, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, fiber.StatusBadRequest, errors.New("file is required")
	}
	if !infra.IsSpreadsheet(fh.Filename) {
		return "", nil, fiber.StatusBadRequest, errors.New(spreadsheetOnlyMessage)
	}
	path, status, err := h.saveUpload(c, fh)
	if err != nil {
		return "", nil, status, err
	}
	groups, err := h.loader.LoadFile(path)
	if err != nil {
		slog.Warn("skill matrix upload could not be parsed", "file", fh.Filename, "error", err)
		return "", nil, fiber.StatusBadRequest, fmt.Errorf("Error processing skill matrix: %v", err)
	}
	return path, groups, fiber.StatusOK, nil
}

func (h *Handler) saveUpload(c *fiber.Ctx, fh *multipart.FileHeader) (string, int, error) {
	if h.opts.MaxFileSize > 0 && fh.Size > h.opts.MaxFileSize {
		return "", fiber.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds the %d byte limit", h.opts.MaxFileSize)
	}
	if err := os.MkdirAll(h.opts.UploadDir, 0o755); err != nil {
		return "", fiber.StatusInternalServerError, fmt.Errorf("prepare upload dir: %w", err)
	}
	name := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))
	path, err := filepath.Abs(filepath.Join(h.opts.UploadDir, name))
	if err != nil {
		return "", fiber.StatusInternalServerError, err
	}
	if err := c.SaveFile(fh, path); err != nil {
		return "", fiber.StatusInternalServerError, fmt.Errorf("save upload: %w", err)
	}
	slog.Info("file uploaded", "name", fh.Filename, "path", path, "size", fh.Size)
	return path, fiber.StatusOK, nil
}

type searchByIDReq struct {
	EmployeeID int    `json:"employee_id"`
	SessionID  string `json:"session_id,omitempty"`
}

type searchByNameReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	SessionID string `json:"session_id,omitempty"`
}

func (h *Handler) SearchByID(c *fiber.Ctx) error {
	var req searchByIDReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	out, err := h.skills.SearchByID(c.UserContext(), req.SessionID, req.EmployeeID)
	switch {
	case errors.Is(err, usecase.ErrNoSkillMatrix):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": noSkillMatrixMessage})
	case errors.Is(err, usecase.ErrEmployeeMissing):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("No employee found with ID %d", req.EmployeeID)})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(out)
}

func (h *Handler) SearchByName(c *fiber.Ctx) error {
	var req searchByNameReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	out, err := h.skills.SearchByName(c.UserContext(), req.SessionID, req.FirstName, req.LastName)
	if errors.Is(err, usecase.ErrNoSkillMatrix) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": noSkillMatrixMessage})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(out)
}

func (h *Handler) ListEmployees(c *fiber.Ctx) error {
	out, err := h.skills.Employees(c.UserContext(), c.Query("session_id"))
	if errors.Is(err, usecase.ErrNoSkillMatrix) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": noSkillMatrixMessage})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(out)
}

func (h *Handler) Generate(c *fiber.Ctx) error {
	var req usecase.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if strings.TrimSpace(req.TemplatePath) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "template_path is required"})
	}

	res, err := h.processor.Generate(c.UserContext(), req)
	switch {
	case errors.Is(err, usecase.ErrTemplateNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": templateNotFoundMessage})
	case errors.Is(err, infra.ErrUnsupportedFile), errors.Is(err, infra.ErrExtraction):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		slog.Error("generation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error generating resume: " + err.Error()})
	}
	return c.JSON(res)
}

type layoutInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) Templates(c *fiber.Ctx) error {
	layouts := h.layouts.List()
	out := make([]layoutInfo, 0, len(layouts))
	for _, l := range layouts {
		out = append(out, layoutInfo{ID: l.ID, Name: l.Name, Description: l.Description})
	}
	return c.JSON(out)
}

// Download serves a generated file. Only a bare file name is accepted.
func (h *Handler) Download(c *fiber.Ctx) error {
	name := c.Params("filename")
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid file name"})
	}
	path := filepath.Join(h.opts.OutputDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
	}
	return c.Download(path, name)
}

func (h *Handler) Runs(c *fiber.Ctx) error {
	runs, err := h.processor.ListRuns(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		slog.Warn("listing runs failed", "error", err)
		return c.JSON([]domain.GenerationRun{})
	}
	return c.JSON(runs)
}

func (h *Handler) SendApplication(c *fiber.Ctx) error {
	var req usecase.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	res, err := h.mailer.Send(c.UserContext(), req)
	switch {
	case errors.Is(err, usecase.ErrInvalidEmail):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, usecase.ErrAttachmentMissing):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, usecase.ErrBrokerUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}
