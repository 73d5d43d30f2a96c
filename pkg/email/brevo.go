package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"ppv-gate/pkg/config"
	"time"
)

const brevoSendEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoProvider implements Provider for the Brevo transactional email API
type BrevoProvider struct {
	config config.BrevoConfig
	client *http.Client
}

// NewBrevoProvider creates a new Brevo email provider
func NewBrevoProvider(cfg config.BrevoConfig) (*BrevoProvider, error) {
	return &BrevoProvider{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SendEmail sends an email using the Brevo API
func (b *BrevoProvider) SendEmail(ctx context.Context, to []string, subject string, body EmailBody) error {
	// prepare recipients
	recipients := make([]map[string]string, 0, len(to))
	for _, recipient := range to {
		recipients = append(recipients, map[string]string{"email": recipient})
	}

	// create the email payload
	payload := map[string]interface{}{
		"sender": map[string]string{
			"email": b.config.FromEmail,
			"name":  b.config.FromName,
		},
		"to":      recipients,
		"subject": subject,
	}
	if body.HTML != "" {
		payload["htmlContent"] = body.HTML
	}
	if body.Text != "" {
		payload["textContent"] = body.Text
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoSendEndpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("api-key", b.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Brevo API returned status %d", resp.StatusCode)
	}

	return nil
}

// SendTemplateEmail sends an email using a template
func (b *BrevoProvider) SendTemplateEmail(ctx context.Context, to []string, templateName string, data interface{}) error {
	body, err := renderTemplate(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	subject := getTemplateSubject(templateName, data)
	return b.SendEmail(ctx, to, subject, body)
}

// ValidateProvider validates the Brevo configuration
func (b *BrevoProvider) ValidateProvider(ctx context.Context) error {
	if b.config.APIKey == "" {
		return fmt.Errorf("Brevo API key is required")
	}
	if b.config.FromEmail == "" {
		return fmt.Errorf("Brevo from email is required")
	}
	return nil
}
