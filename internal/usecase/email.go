package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const EmailRoutingKey = "email.send_application"

var (
	ErrAttachmentMissing = errors.New("attachment file not found")
	ErrBrokerUnavailable = errors.New("email queue is not available")
	ErrInvalidEmail      = errors.New("invalid email request")
)

type EmailRequest struct {
	RecipientEmail      string   `json:"recipient_email"`
	Subject             string   `json:"subject"`
	Body                string   `json:"body"`
	ResumeFilePath      string   `json:"resume_file_path"`
	CoverLetterFilePath string   `json:"cover_letter_file_path"`
	CCEmails            []string `json:"cc_emails"`
}

// EmailJob is what the mail worker consumes.
type EmailJob struct {
	ID string `json:"id"`
	EmailRequest
	QueuedAt time.Time `json:"queued_at"`
}

type EmailResult struct {
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	JobID     string `json:"job_id,omitempty"`
}

// ApplicationMailer hands finished application documents to the mail
// worker over the event queue. Delivery itself happens elsewhere.
type ApplicationMailer struct {
	events EventPublisher
	now    func() time.Time
}

func NewApplicationMailer(events EventPublisher) *ApplicationMailer {
	return &ApplicationMailer{events: events, now: time.Now}
}

func (m *ApplicationMailer) Send(ctx context.Context, req EmailRequest) (*EmailResult, error) {
	if err := validateEmail(req); err != nil {
		return nil, err
	}
	if !fileExists(req.ResumeFilePath) {
		return nil, fmt.Errorf("resume file not found: %s: %w", req.ResumeFilePath, ErrAttachmentMissing)
	}
	if !fileExists(req.CoverLetterFilePath) {
		return nil, fmt.Errorf("cover letter file not found: %s: %w", req.CoverLetterFilePath, ErrAttachmentMissing)
	}
	if m.events == nil {
		return nil, ErrBrokerUnavailable
	}

	job := EmailJob{ID: uuid.New().String(), EmailRequest: req, QueuedAt: m.now().UTC()}
	if err := m.events.Publish(ctx, EmailRoutingKey, job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
	}
	return &EmailResult{
		Message:   "Email queued for delivery to " + req.RecipientEmail,
		Success:   true,
		Timestamp: job.QueuedAt.Format(time.RFC3339),
		JobID:     job.ID,
	}, nil
}

func validateEmail(req EmailRequest) error {
	if _, err := mail.ParseAddress(req.RecipientEmail); err != nil {
		return fmt.Errorf("%w: recipient_email: %v", ErrInvalidEmail, err)
	}
	for _, cc := range req.CCEmails {
		if _, err := mail.ParseAddress(cc); err != nil {
			return fmt.Errorf("%w: cc_emails: %v", ErrInvalidEmail, err)
		}
	}
	if strings.TrimSpace(req.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidEmail)
	}
	return nil
}
