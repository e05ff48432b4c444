package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRun is the audit record of one pipeline execution.
type GenerationRun struct {
	ID                uuid.UUID              `json:"id"`
	CandidateName     string                 `json:"candidate_name"`
	TemplateRequested int                    `json:"template_requested"`
	TemplateUsed      int                    `json:"template_used"`
	Strategy          int                    `json:"strategy"`
	ResumePath        string                 `json:"resume_path"`
	CoverLetterPath   string                 `json:"cover_letter_path"`
	CoverLetterStatus string                 `json:"cover_letter_status"`
	RepairCount       int                    `json:"repair_count"`
	Error             string                 `json:"error,omitempty"`
	Metadata          map[string]interface{} `json:"metadata"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}
