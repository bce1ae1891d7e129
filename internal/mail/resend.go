// Package mail renders transactional emails and sends them through Resend.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taxclarity/internal/logger"
)

// ErrNotConfigured is returned when no Resend API key is set.
var ErrNotConfigured = errors.New("email service not configured")

type Email struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, email Email) (string, error)
}

type Config struct {
	APIKey    string
	FromEmail string
	BaseURL   string
	Timeout   time.Duration
}

type resendClient struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewResend(log *logger.Logger, cfg Config) Sender {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.resend.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if strings.TrimSpace(cfg.FromEmail) == "" {
		cfg.FromEmail = "TaxClarity NG <onboarding@resend.dev>"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &resendClient{
		log:        log.With("client", "ResendClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// --- wire types ---

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (c *resendClient) Send(ctx context.Context, email Email) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.cfg.FromEmail,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var out sendResponse
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Message
		if msg == "" {
			msg = "Failed to send email"
		}
		c.log.Warn("resend rejected email", "status", resp.StatusCode, "message", msg)
		return "", fmt.Errorf("resend status %d: %s", resp.StatusCode, msg)
	}
	return out.ID, nil
}
