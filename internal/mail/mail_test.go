package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taxclarity/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	r, err := Render(TemplateWelcome, map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to TaxClarity NG! 🎉", r.Subject)
	assert.Contains(t, r.HTML, "Welcome, Ada!")
}

func TestRender_ReminderDefaultsAndSubject(t *testing.T) {
	r, err := Render(TemplateReminder, nil)
	require.NoError(t, err)
	assert.Equal(t, "⏰ Tax Reminder: Action Required due in 7 days", r.Subject)
	assert.Contains(t, r.HTML, "Hi there,")
	assert.Contains(t, r.HTML, "Soon")

	r, err = Render(TemplateReminder, map[string]interface{}{"taskTitle": "File return", "daysLeft": float64(0)})
	require.NoError(t, err)
	assert.Equal(t, "⏰ Tax Reminder: File return due today!", r.Subject)
	assert.Contains(t, r.HTML, "Due Today!")
}

func TestRender_EscapesUserInput(t *testing.T) {
	r, err := Render(TemplateWelcome, map[string]interface{}{"name": "<script>x</script>"})
	require.NoError(t, err)
	assert.NotContains(t, r.HTML, "<script>")
}

func TestRender_DeadlineAlertAcceptsCamelCase(t *testing.T) {
	r, err := Render("deadlineAlert", map[string]interface{}{"deadline": "31 March"})
	require.NoError(t, err)
	assert.Equal(t, "🔔 Important Tax Deadline: 31 March", r.Subject)
	assert.Contains(t, r.HTML, "Check the app for details.")
}

func TestRender_Custom(t *testing.T) {
	_, err := Render(TemplateCustom, map[string]interface{}{"subject": "Hi"})
	assert.Error(t, err)

	r, err := Render(TemplateCustom, map[string]interface{}{"subject": "Hi", "html": "<p>raw</p>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>raw</p>", r.HTML)
}

func TestRender_Unknown(t *testing.T) {
	_, err := Render("newsletter", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
	assert.False(t, IsTemplate("newsletter"))
	assert.True(t, IsTemplate("deadlineAlert"))
}

func TestResend_Send(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	s := NewResend(logger.Nop(), Config{APIKey: "key", BaseURL: srv.URL})
	id, err := s.Send(context.Background(), Email{To: "a@b.ng", Subject: "S", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, []string{"a@b.ng"}, got.To)
	assert.Equal(t, "TaxClarity NG <onboarding@resend.dev>", got.From)
}

func TestResend_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid to"}`))
	}))
	defer srv.Close()

	s := NewResend(logger.Nop(), Config{APIKey: "key", BaseURL: srv.URL})
	_, err := s.Send(context.Background(), Email{To: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid to")
}

func TestResend_NotConfigured(t *testing.T) {
	_, err := NewResend(logger.Nop(), Config{}).Send(context.Background(), Email{To: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
