// Package push delivers device notifications through OneSignal.
package push

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

// ErrNotConfigured is returned when no OneSignal credentials are set.
var ErrNotConfigured = errors.New("push provider not configured")

// Message is one notification addressed to a set of devices.
type Message struct {
	PlayerIDs []string
	Title     string
	Body      string
	Data      map[string]interface{}
}

// Sender is the minimal interface the reminder job needs to push a message.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type Config struct {
	AppID   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type oneSignal struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

// NewOneSignal builds a Sender for the OneSignal REST API. Missing credentials
// yield a Sender that fails every call with ErrNotConfigured.
func NewOneSignal(log *logger.Logger, cfg Config) Sender {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://onesignal.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &oneSignal{
		log:        log.With("client", "OneSignalClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// --- wire types ---

type notificationRequest struct {
	AppID            string                 `json:"app_id"`
	IncludePlayerIDs []string               `json:"include_player_ids"`
	Headings         map[string]string      `json:"headings"`
	Contents         map[string]string      `json:"contents"`
	Data             map[string]interface{} `json:"data,omitempty"`
}

type notificationResponse struct {
	ID     string          `json:"id"`
	Errors json.RawMessage `json:"errors,omitempty"`
}

func (c *oneSignal) Send(ctx context.Context, msg Message) (string, error) {
	if c.cfg.AppID == "" || c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}
	if len(msg.PlayerIDs) == 0 {
		return "", fmt.Errorf("no player ids")
	}

	payload, err := json.Marshal(notificationRequest{
		AppID:            c.cfg.AppID,
		IncludePlayerIDs: msg.PlayerIDs,
		Headings:         map[string]string{"en": msg.Title},
		Contents:         map[string]string{"en": msg.Body},
		Data:             msg.Data,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/v1/notifications", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("onesignal request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("onesignal status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out notificationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("onesignal decode: %w", err)
	}
	if len(out.Errors) > 0 && string(out.Errors) != "null" {
		c.log.Warn("onesignal reported errors", "errors", string(out.Errors), "id", out.ID)
	}
	return out.ID, nil
}
