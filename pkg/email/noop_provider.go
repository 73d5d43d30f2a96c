package email

import (
	"context"
	"ppv-gate/pkg/logger"
)

// NoOpProvider implements the Provider interface but does absolutely nothing.
// Used when no email collaborator is configured - issuance still succeeds and
// the buyer recovers the watch link through the resume endpoint.
type NoOpProvider struct {
	mode string
}

// NewNoOpProvider creates a new no-op email provider
func NewNoOpProvider(mode string) *NoOpProvider {
	return &NoOpProvider{
		mode: mode,
	}
}

// SendEmail does nothing gracefully
func (n *NoOpProvider) SendEmail(ctx context.Context, to []string, subject string, body EmailBody) error {
	return nil
}

// SendTemplateEmail does nothing gracefully
func (n *NoOpProvider) SendTemplateEmail(ctx context.Context, to []string, templateName string, data interface{}) error {
	return nil
}

// ValidateProvider always succeeds
func (n *NoOpProvider) ValidateProvider(ctx context.Context) error {
	logger.Infof("email provider disabled (mode: %s), watch links only reachable via /resume", n.mode)
	return nil
}
