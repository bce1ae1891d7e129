package service

import (
	"context"
	"errors"
	"strings"

	"taxclarity/internal/apperr"
	"taxclarity/internal/logger"
	"taxclarity/internal/mail"
)

// --- DTOs ---

type EmailRequest struct {
	To       string                 `json:"to" binding:"required,email"`
	Template string                 `json:"template" binding:"required"`
	Data     map[string]interface{} `json:"data"`
}

type EmailResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// --- Interface ---

type EmailService interface {
	Send(ctx context.Context, req EmailRequest) (EmailResult, error)
}

type emailService struct {
	sender mail.Sender
	log    *logger.Logger
}

func NewEmailService(sender mail.Sender, log *logger.Logger) EmailService {
	return &emailService{sender: sender, log: log.With("service", "EmailService")}
}

// --- Implementation ---

// Send renders one of the fixed templates and hands it to the provider. Provider
// failures come back both as a failed result and as a Provider error.
func (s *emailService) Send(ctx context.Context, req EmailRequest) (EmailResult, error) {
	to := strings.TrimSpace(req.To)
	if to == "" || req.Template == "" {
		return EmailResult{}, apperr.Validation("missing required fields: to, template")
	}
	if !mail.IsTemplate(req.Template) {
		return EmailResult{}, apperr.Validation("unknown template: " + req.Template)
	}

	rendered, err := mail.Render(req.Template, req.Data)
	if err != nil {
		return EmailResult{}, apperr.Validation(err.Error())
	}

	id, err := s.sender.Send(ctx, mail.Email{To: to, Subject: rendered.Subject, HTML: rendered.HTML})
	if err != nil {
		msg := err.Error()
		if errors.Is(err, mail.ErrNotConfigured) {
			msg = "Email service not configured"
		}
		s.log.Error("email send failed", "template", req.Template, "error", err)
		return EmailResult{Success: false, Error: msg}, apperr.Provider("send email", err)
	}

	s.log.Info("email sent", "template", req.Template, "message_id", id)
	return EmailResult{Success: true, MessageID: id}, nil
}
