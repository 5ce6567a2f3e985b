package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"
	"teises_draugas_go/config"
	"teises_draugas_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("[EMAIL] Sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n[EMAIL] Test mode, not sent\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// SendEmailAsync sends an email asynchronously using a goroutine
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("[EMAIL] Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

var notificationEmailTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html lang="lt">
<body style="font-family: Helvetica, Arial, sans-serif; color: #1f2937;">
  <p>Sveiki, {{.Name}},</p>
  <h2 style="font-size: 18px;">{{.Title}}</h2>
  <p>{{.Message}}</p>
  {{if .Link}}<p><a href="{{.Link}}">Peržiūrėti bylą</a></p>{{end}}
  <hr>
  <p style="font-size: 12px; color: #6b7280;">Teisės Draugas | AI teisinis pagalbininkas</p>
</body>
</html>`))

// BuildNotificationEmail renders the mail copy of an in-app notification.
func BuildNotificationEmail(cfg *config.Config, toEmail, name string, n *models.Notification) *Email {
	link := ""
	if n.LinkURL != "" {
		link = strings.TrimSuffix(cfg.AppURL, "/") + n.LinkURL
	}

	data := struct {
		Name, Title, Message, Link string
	}{name, n.Title, n.Message, link}

	var html bytes.Buffer
	if err := notificationEmailTemplate.Execute(&html, data); err != nil {
		log.Printf("[EMAIL] Failed to render notification template: %v", err)
	}

	text := fmt.Sprintf("Sveiki, %s,\n\n%s\n\n%s\n", name, n.Title, n.Message)
	if link != "" {
		text += "\n" + link + "\n"
	}

	return &Email{
		To:       []string{toEmail},
		Subject:  n.Title,
		HTMLBody: html.String(),
		TextBody: text,
	}
}
