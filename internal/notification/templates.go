package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type bookingConfirmedEmailData struct {
	baseEmailData
	CustomerName  string
	SlotFormatted string
	BookingID     string
}

type depositReceivedEmailData struct {
	baseEmailData
	AmountFormatted string
	BookingID       string
}

type bookingReminderEmailData struct {
	baseEmailData
	SlotFormatted string
	BookingID     string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencyKRW(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s + " KRW"
}
