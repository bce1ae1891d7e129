package service

import (
	"context"
	"errors"
	"testing"

	"taxclarity/internal/apperr"
	"taxclarity/internal/logger"
	"taxclarity/internal/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	got mail.Email
	err error
}

func (f *fakeMailer) Send(_ context.Context, e mail.Email) (string, error) {
	f.got = e
	if f.err != nil {
		return "", f.err
	}
	return "msg-42", nil
}

func TestEmailService_SendsRenderedTemplate(t *testing.T) {
	m := &fakeMailer{}
	res, err := NewEmailService(m, logger.Nop()).Send(context.Background(), EmailRequest{
		To:       "ada@example.ng",
		Template: "reminder",
		Data:     map[string]interface{}{"taskTitle": "File first return", "daysLeft": 3},
	})
	require.NoError(t, err)

	assert.Equal(t, EmailResult{Success: true, MessageID: "msg-42"}, res)
	assert.Equal(t, "ada@example.ng", m.got.To)
	assert.Equal(t, "⏰ Tax Reminder: File first return due in 3 days", m.got.Subject)
	assert.Contains(t, m.got.HTML, "Urgent Reminder")
}

func TestEmailService_Validation(t *testing.T) {
	svc := NewEmailService(&fakeMailer{}, logger.Nop())

	_, err := svc.Send(context.Background(), EmailRequest{Template: "welcome"})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))

	_, err = svc.Send(context.Background(), EmailRequest{To: "a@b.ng", Template: "promo"})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))

	_, err = svc.Send(context.Background(), EmailRequest{To: "a@b.ng", Template: "custom", Data: map[string]interface{}{"subject": "x"}})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}

func TestEmailService_ProviderFailure(t *testing.T) {
	svc := NewEmailService(&fakeMailer{err: mail.ErrNotConfigured}, logger.Nop())
	res, err := svc.Send(context.Background(), EmailRequest{To: "a@b.ng", Template: "welcome"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeProvider))
	assert.False(t, res.Success)
	assert.Equal(t, "Email service not configured", res.Error)

	svc = NewEmailService(&fakeMailer{err: errors.New("rate limited")}, logger.Nop())
	res, _ = svc.Send(context.Background(), EmailRequest{To: "a@b.ng", Template: "welcome"})
	assert.Equal(t, "rate limited", res.Error)
}
