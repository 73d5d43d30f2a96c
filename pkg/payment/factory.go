package payment

import (
	"context"
	"fmt"
	"ppv-gate/pkg/config"
)

// NewPaymentProvider creates a payment provider based on configuration. An
// unconfigured gateway yields the disabled provider so initiate requests fail
// with a clear error instead of a half-built bill.
func NewPaymentProvider(ctx context.Context, cfg *config.PaymentConfig) (Provider, error) {
	if cfg.SecretKey == "" || cfg.CategoryCode == "" {
		return NewDisabledProvider(), nil
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("payment base URL is required")
	}

	return NewToyyibPayProvider(*cfg), nil
}
