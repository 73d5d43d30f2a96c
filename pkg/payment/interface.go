package payment

import (
	"context"
)

// BillRequest carries the buyer details for a hosted payment page.
type BillRequest struct {
	Name        string
	Email       string
	ExternalRef string
}

// Provider defines the interface for the payment-gateway collaborator. It
// creates a hosted bill and returns the URL the buyer should be redirected to.
type Provider interface {
	// CreateBill creates a bill and returns the hosted payment page URL
	CreateBill(ctx context.Context, req BillRequest) (string, error)

	// ValidateProvider validates the provider configuration
	ValidateProvider(ctx context.Context) error
}
