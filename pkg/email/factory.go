package email

import (
	"context"
	"fmt"
	"ppv-gate/pkg/config"
)

// email provider constants
const (
	ProviderSMTP  = "smtp"
	ProviderBrevo = "brevo"
	ProviderNoOp  = "noop"
)

// NewEmailProvider creates an email provider based on configuration
func NewEmailProvider(ctx context.Context, cfg *config.EmailConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderSMTP:
		if cfg.SMTP.Host == "" || cfg.SMTP.Port == 0 || cfg.SMTP.Username == "" {
			return nil, fmt.Errorf("SMTP host, port, and username are required")
		}
		return NewSMTPProvider(cfg.SMTP)

	case ProviderBrevo:
		if cfg.Brevo.APIKey == "" || cfg.Brevo.FromEmail == "" {
			return nil, fmt.Errorf("Brevo API key and from email are required")
		}
		return NewBrevoProvider(cfg.Brevo)

	case ProviderNoOp, "":
		return NewNoOpProvider(cfg.Provider), nil

	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}
