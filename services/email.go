package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"landing_relay_app_go/config"
	"landing_relay_app_go/models"

	"github.com/resend/resend-go/v2"
)

// emailTemplateDir holds <name>.html / <name>.txt pairs
var emailTemplateDir = "templates/emails"

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// LeadNotifier is told about every submission that reached the webhook
type LeadNotifier interface {
	NotifyLead(payload *models.ForwardPayload)
}

// EmailLeadNotifier mails new leads to LEAD_NOTIFY_EMAIL. It does nothing
// when no recipient is configured.
type EmailLeadNotifier struct {
	Config *config.Config
}

func (n *EmailLeadNotifier) NotifyLead(payload *models.ForwardPayload) {
	if n == nil || n.Config == nil || n.Config.LeadNotifyEmail == "" {
		return
	}
	SendEmailAsync(n.Config, BuildLeadNotificationEmail(n.Config.LeadNotifyEmail, payload))
}

// loadTemplate renders templateName.html and templateName.txt from emailTemplateDir
func loadTemplate(templateName string, data interface{}) (htmlBody string, textBody string, err error) {
	htmlPath := filepath.Join(emailTemplateDir, templateName+".html")
	content, err := os.ReadFile(htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read template %s: %v", htmlPath, err)
	}
	htmlTmpl, err := template.New(filepath.Base(htmlPath)).Parse(string(content))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %v", htmlPath, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %v", htmlPath, err)
	}

	textPath := filepath.Join(emailTemplateDir, templateName+".txt")
	content, err = os.ReadFile(textPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read template %s: %v", textPath, err)
	}
	textTmpl, err := texttemplate.New(filepath.Base(textPath)).Parse(string(content))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %v", textPath, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %v", textPath, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// BuildLeadNotificationEmail describes a forwarded submission. Falls back to
// a plain text body when the template files are not deployed.
func BuildLeadNotificationEmail(toEmail string, payload *models.ForwardPayload) *Email {
	email := &Email{
		To:      []string{toEmail},
		Subject: "New contact request from " + payload.Name,
	}

	htmlBody, textBody, err := loadTemplate("lead_notification", payload)
	if err != nil {
		log.Printf("Error loading lead_notification email template: %v", err)
		email.TextBody = fallbackLeadText(payload)
		return email
	}

	email.HTMLBody = htmlBody
	email.TextBody = textBody
	return email
}

func fallbackLeadText(p *models.ForwardPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Submission: %s\n", p.SubmissionID)
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n", p.Name, p.Email, p.Phone)
	fmt.Fprintf(&b, "Project: %s\n", p.ProjectDescription)
	fmt.Fprintf(&b, "Score: %s\n", p.ScoreText())
	if p.UTM != (models.UTM{}) {
		fmt.Fprintf(&b, "Campaign: source=%s medium=%s campaign=%s term=%s content=%s\n",
			p.Source, p.Medium, p.Campaign, p.Term, p.Content)
	}
	return b.String()
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
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode, not sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email in a goroutine so the HTTP response is not held up
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}
