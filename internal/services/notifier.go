package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"pantoufles-app/internal/config"
)

// Notifier sends a templated message to a client when their status changes.
// Failures are non-fatal to the triggering operation.
type Notifier interface {
	SendStatusUpdate(email, name, status string) error
}

type statusEmail struct {
	Subject string
	Body    string
}

var statusEmails = map[string]statusEmail{
	"pending": {
		Subject: "Votre demande PANTOUFLES reçue",
		Body: `Bonjour %s,

Merci pour votre intérêt envers PANTOUFLES !

Nous avons bien reçu votre demande. Notre équipe l'examine actuellement et vous recontactera très rapidement pour confirmer et personnaliser votre service.

À bientôt !

L'équipe PANTOUFLES`,
	},
	"confirmed": {
		Subject: "Votre demande PANTOUFLES confirmée !",
		Body: `Bonjour %s,

Excellente nouvelle ! Votre demande a été confirmée par notre équipe.

Nous allons très bientôt vous contacter pour organiser l'intervention et répondre à vos questions.

Merci de votre confiance !

L'équipe PANTOUFLES`,
	},
	"in-progress": {
		Subject: "Votre service PANTOUFLES en cours",
		Body: `Bonjour %s,

Votre service est maintenant en cours de préparation !

Notre équipe fait tout son possible pour vous offrir le meilleur service possible. Nous vous tiendrons informé de la progression.

L'équipe PANTOUFLES`,
	},
	"completed": {
		Subject: "Votre service PANTOUFLES est terminé !",
		Body: `Bonjour %s,

Votre service est maintenant terminé !

Nous espérons que vous êtes satisfait du travail réalisé. N'hésitez pas à nous contacter si vous avez des questions ou si vous souhaitez continuer nos services.

Merci pour votre confiance !

L'équipe PANTOUFLES`,
	},
}

// SMTPNotifier delivers status emails over SMTP.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) SendStatusUpdate(email, name, status string) error {
	template, ok := statusEmails[status]
	if !ok {
		// No email is defined for this status (e.g. cancelled).
		log.Printf("[MAIL] No email template for status %q, skipping", status)
		return nil
	}

	if n.cfg.Host == "" {
		log.Printf("[MAIL] SMTP not configured, simulated email to %s: %s", email, template.Subject)
		return nil
	}

	message := gomail.NewMessage()
	message.SetHeader("From", n.cfg.Sender)
	message.SetHeader("To", email)
	message.SetHeader("Subject", template.Subject)
	message.SetBody("text/plain", fmt.Sprintf(template.Body, name))

	dialer := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send status email: %w", err)
	}

	log.Printf("[MAIL] Status email sent to %s (status=%s)", email, status)
	return nil
}
