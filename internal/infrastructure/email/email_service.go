package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	config "github.com/opsboard/admin-console/configs"
	"github.com/opsboard/admin-console/internal/core/ports"
)

// EmailService implements the EmailService interface using SendGrid
type EmailService struct {
	config    *config.EmailConfig
	namespace string
	logger    *logrus.Logger
	client    *sendgrid.Client
	templates map[string]*template.Template
}

// NewEmailService creates a new email service instance. The namespace is the
// route group the console is mounted under; it appears in emailed links.
func NewEmailService(cfg *config.EmailConfig, namespace string, logger *logrus.Logger) (ports.EmailService, error) {
	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)

	// Load email templates
	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	return &EmailService{
		config:    cfg,
		namespace: namespace,
		logger:    logger,
		client:    client,
		templates: templates,
	}, nil
}

// loadTemplates loads all email templates from the template directory
func loadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	templateDir := "templates/email"

	templateFiles := []string{
		"invitation.html",
		"password_reset.html",
	}

	for _, file := range templateFiles {
		name := filepath.Base(file)
		name = name[:len(name)-len(filepath.Ext(name))] // Remove .html extension

		tmpl, err := template.ParseFiles(filepath.Join(templateDir, file))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}

		templates[name] = tmpl
	}

	return templates, nil
}

// sendEmail sends an email using SendGrid
func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"error":   err,
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Email sent successfully")

	return nil
}

// renderTemplate renders an email template with the provided data
func (e *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := e.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

// InvitationEmailData holds data for the invitation template
type InvitationEmailData struct {
	CompanyName     string
	ConfirmationURL string
}

// PasswordResetEmailData holds data for the password reset template
type PasswordResetEmailData struct {
	CompanyName string
	ResetURL    string
}

// SendInvitationEmail sends the confirmation link for a freshly invited or
// re-invited account. Only the raw token leaves the system; its digest stays
// in the database.
func (e *EmailService) SendInvitationEmail(ctx context.Context, email, token string) error {
	data := InvitationEmailData{
		CompanyName:     e.config.CompanyName,
		ConfirmationURL: fmt.Sprintf("%s/%s/confirmation?confirmation_token=%s", e.config.BaseURL, e.namespace, token),
	}

	htmlContent, err := e.renderTemplate("invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render invitation email template: %w", err)
	}

	subject := fmt.Sprintf("Confirm Your Account - %s", e.config.CompanyName)

	return e.sendEmail(email, subject, htmlContent)
}

// SendPasswordResetEmail sends a password reset link
func (e *EmailService) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	data := PasswordResetEmailData{
		CompanyName: e.config.CompanyName,
		ResetURL:    fmt.Sprintf("%s/%s/password/edit?reset_password_token=%s", e.config.BaseURL, e.namespace, token),
	}

	htmlContent, err := e.renderTemplate("password_reset", data)
	if err != nil {
		return fmt.Errorf("failed to render password reset email template: %w", err)
	}

	subject := fmt.Sprintf("Reset Your Password - %s", e.config.CompanyName)

	return e.sendEmail(email, subject, htmlContent)
}
