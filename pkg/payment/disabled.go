package payment

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when the payment gateway is not configured.
var ErrNotConfigured = errors.New("payment gateway not configured")

// DisabledProvider implements Provider when no gateway credentials are set.
// Every bill creation fails loudly so misconfiguration surfaces at the
// initiate endpoint instead of a dead checkout page.
type DisabledProvider struct {
}

// NewDisabledProvider creates a disabled payment provider
func NewDisabledProvider() *DisabledProvider {
	return &DisabledProvider{}
}

// CreateBill always fails
func (d *DisabledProvider) CreateBill(ctx context.Context, req BillRequest) (string, error) {
	return "", ErrNotConfigured
}

// ValidateProvider always fails so startup logs flag the missing credentials
func (d *DisabledProvider) ValidateProvider(ctx context.Context) error {
	return ErrNotConfigured
}
