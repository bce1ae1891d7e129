package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

// Template names
const (
	TemplateWelcome       = "welcome"
	TemplateReminder      = "reminder"
	TemplateDeadlineAlert = "deadline_alert"
	TemplateCustom        = "custom"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ErrUnknownTemplate is returned by Render for an unrecognised template name.
var ErrUnknownTemplate = errors.New("unknown template")

// Rendered is a ready-to-send subject and HTML body.
type Rendered struct {
	Subject string
	HTML    string
}

// Render fills the named template. Missing fields fall back to friendly defaults;
// the custom template requires "subject" and "html" and passes the HTML through untouched.
func Render(name string, data map[string]interface{}) (Rendered, error) {
	switch normalize(name) {
	case TemplateWelcome:
		return render("welcome.html", "Welcome to TaxClarity NG! 🎉", map[string]string{
			"Name": str(data, "name", "there"),
		})

	case TemplateReminder:
		daysLeft := intOr(data, "daysLeft", 7)
		task := str(data, "taskTitle", "Action Required")
		view := map[string]string{
			"Name":      str(data, "name", "there"),
			"TaskTitle": task,
			"DueDate":   str(data, "dueDate", "Soon"),
		}
		switch {
		case daysLeft == 0:
			view["Background"], view["Accent"], view["Heading"] = "#fff3cd", "#856404", "🚨 Due Today!"
		case daysLeft <= 3:
			view["Background"], view["Accent"], view["Heading"] = "#f8d7da", "#721c24", "⚠️ Urgent Reminder"
		default:
			view["Background"], view["Accent"], view["Heading"] = "#d4edda", "#155724", "📅 Upcoming Deadline"
		}
		due := fmt.Sprintf("in %d days", daysLeft)
		if daysLeft == 0 {
			due = "today!"
		}
		return render("reminder.html", fmt.Sprintf("⏰ Tax Reminder: %s due %s", task, due), view)

	case TemplateDeadlineAlert:
		deadline := str(data, "deadline", "Upcoming deadline")
		return render("deadline_alert.html", "🔔 Important Tax Deadline: "+deadline, map[string]string{
			"Name":        str(data, "name", "there"),
			"Deadline":    deadline,
			"Description": str(data, "description", "Check the app for details."),
		})

	case TemplateCustom:
		subject, html := str(data, "subject", ""), str(data, "html", "")
		if subject == "" || html == "" {
			return Rendered{}, fmt.Errorf("custom template requires subject and html")
		}
		return Rendered{Subject: subject, HTML: html}, nil

	default:
		return Rendered{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
}

// IsTemplate reports whether name is a known template.
func IsTemplate(name string) bool {
	switch normalize(name) {
	case TemplateWelcome, TemplateReminder, TemplateDeadlineAlert, TemplateCustom:
		return true
	}
	return false
}

func render(file, subject string, view map[string]string) (Rendered, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, file, view); err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", file, err)
	}
	return Rendered{Subject: subject, HTML: buf.String()}, nil
}

// normalize accepts the mobile client's camelCase names as well.
func normalize(name string) string {
	if name == "deadlineAlert" {
		return TemplateDeadlineAlert
	}
	return strings.TrimSpace(name)
}

func str(data map[string]interface{}, key, def string) string {
	if v, ok := data[key]; ok && v != nil {
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return def
}

func intOr(data map[string]interface{}, key string, def int) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
