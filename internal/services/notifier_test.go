package services

import (
	"testing"

	"pantoufles-app/internal/config"
)

func TestSMTPNotifier_UnknownStatusIsSkipped(t *testing.T) {
	notifier := NewSMTPNotifier(config.SMTPConfig{Host: "smtp.example.fr", Port: 587})

	// cancelled has no email template; nothing is sent, nothing fails.
	if err := notifier.SendStatusUpdate("claude@example.fr", "Claude", "cancelled"); err != nil {
		t.Fatalf("SendStatusUpdate for unknown template = %v, want nil", err)
	}
}

func TestSMTPNotifier_MissingConfigSimulatesSend(t *testing.T) {
	notifier := NewSMTPNotifier(config.SMTPConfig{})

	if err := notifier.SendStatusUpdate("claude@example.fr", "Claude", "confirmed"); err != nil {
		t.Fatalf("SendStatusUpdate without SMTP config = %v, want nil", err)
	}
}

func TestStatusEmails_TemplatesForAllNotifiedStatuses(t *testing.T) {
	for _, status := range []string{"pending", "confirmed", "in-progress", "completed"} {
		template, ok := statusEmails[status]
		if !ok {
			t.Errorf("no email template for status %q", status)
			continue
		}
		if template.Subject == "" || template.Body == "" {
			t.Errorf("incomplete email template for status %q", status)
		}
	}
}
