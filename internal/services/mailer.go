package services

import (
	"fmt"

	"benchtime/internal/config"
	"benchtime/internal/utils/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional email through SendGrid.
type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
	log    *logger.Logger
}

func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
		log:    logger.New("mailer"),
	}
}

func (m *Mailer) send(toName, toEmail, subject, text, html string) (string, error) {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail(toName, toEmail), text, html)

	response, err := m.client.Send(message)
	if err != nil {
		return "", m.log.Error("Failed to send email to %s: %v", err, toEmail)
	}
	if response.StatusCode >= 400 {
		return "", m.log.Error("SendGrid rejected email to %s: %v", fmt.Errorf("status %d: %s", response.StatusCode, response.Body), toEmail)
	}

	messageID := response.Headers["X-Message-Id"]
	id := ""
	if len(messageID) > 0 {
		id = messageID[0]
	}

	m.log.Success("Email sent to %s (message id %s)", toEmail, id)
	return id, nil
}

// SendPasswordResetEmail delivers the reset link for a requested password
// reset.
func (m *Mailer) SendPasswordResetEmail(toName, toEmail, resetURL string) (string, error) {
	subject := "Passwort zurücksetzen - BenchTime"
	text := fmt.Sprintf(
		"Hallo %s,\n\n"+
			"du hast angefordert, dein BenchTime-Passwort zurückzusetzen. "+
			"Öffne den folgenden Link, um ein neues Passwort zu vergeben:\n\n%s\n\n"+
			"Der Link ist 24 Stunden gültig. Falls du diese Anfrage nicht gestellt hast, "+
			"kannst du diese E-Mail ignorieren.\n",
		toName, resetURL)
	html := fmt.Sprintf(
		"<p>Hallo %s,</p><p>du hast angefordert, dein BenchTime-Passwort zurückzusetzen.</p>"+
			"<p><a href=%q>Neues Passwort vergeben</a></p>"+
			"<p>Der Link ist 24 Stunden gültig. Falls du diese Anfrage nicht gestellt hast, "+
			"kannst du diese E-Mail ignorieren.</p>",
		toName, resetURL)

	return m.send(toName, toEmail, subject, text, html)
}

// SendWelcomeEmail greets a newly registered user.
func (m *Mailer) SendWelcomeEmail(toName, toEmail, organizationName string) (string, error) {
	place := organizationName
	if place == "" {
		place = "BenchTime"
	}

	subject := fmt.Sprintf("Willkommen bei %s!", place)
	text := fmt.Sprintf(
		"Hallo %s,\n\n"+
			"dein Konto bei %s wurde erstellt. Du kannst dich jetzt anmelden und loslegen.\n",
		toName, place)
	html := fmt.Sprintf(
		"<p>Hallo %s,</p><p>dein Konto bei %s wurde erstellt. "+
			"Du kannst dich jetzt anmelden und loslegen.</p>",
		toName, place)

	return m.send(toName, toEmail, subject, text, html)
}
