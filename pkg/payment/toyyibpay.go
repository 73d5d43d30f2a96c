package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"ppv-gate/pkg/config"
	"strconv"
	"strings"
	"time"
)

// callback status value ToyyibPay sends for a successful payment.
const StatusSuccess = "1"

// ExternalRefPrefix prefixes the buyer email in the bill external reference,
// e.g. "TRX-buyer@example.com". The callback handler recovers the email by
// stripping it.
const ExternalRefPrefix = "TRX-"

// ExternalRef builds the bill external reference for a buyer email.
func ExternalRef(email string) string {
	return ExternalRefPrefix + email
}

// EmailFromExternalRef recovers the buyer email from a bill external
// reference, returning false when the reference is malformed.
func EmailFromExternalRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, ExternalRefPrefix) {
		return "", false
	}

	email := ref[len(ExternalRefPrefix):]
	if email == "" {
		return "", false
	}
	return email, true
}

// ToyyibPayProvider implements Provider for the ToyyibPay billing API
type ToyyibPayProvider struct {
	config config.PaymentConfig
	client *http.Client
}

// NewToyyibPayProvider creates a new ToyyibPay payment provider
func NewToyyibPayProvider(cfg config.PaymentConfig) *ToyyibPayProvider {
	return &ToyyibPayProvider{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateBill creates a hosted bill and returns the payment page URL
func (t *ToyyibPayProvider) CreateBill(ctx context.Context, req BillRequest) (string, error) {
	form := url.Values{}
	form.Set("userSecretKey", t.config.SecretKey)
	form.Set("categoryCode", t.config.CategoryCode)
	form.Set("billName", t.config.BillName)
	form.Set("billDescription", t.config.BillDescription)
	form.Set("billPriceSetting", "1")
	form.Set("billPayorInfo", "1")
	form.Set("billAmount", strconv.Itoa(t.config.BillAmountCents))
	form.Set("billReturnUrl", fmt.Sprintf("%s?email=%s", t.config.ReturnURL, url.QueryEscape(req.Email)))
	form.Set("billCallbackUrl", t.config.CallbackURL)
	form.Set("billExternalReferenceNo", req.ExternalRef)
	form.Set("billTo", req.Name)
	form.Set("billEmail", req.Email)
	form.Set("billPaymentChannel", "2")
	form.Set("billChargeToCustomer", "1")
	form.Set("billExpiryDays", strconv.Itoa(t.config.BillExpiryDays))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/index.php/api/createBill", t.config.BaseURL),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to create bill: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ToyyibPay API returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	// a successful createBill response is a one-element JSON array
	var bills []struct {
		BillCode string `json:"BillCode"`
	}
	err = json.Unmarshal(respBody, &bills)
	if err != nil || len(bills) == 0 || bills[0].BillCode == "" {
		return "", fmt.Errorf("unexpected createBill response: %s", string(respBody))
	}

	return fmt.Sprintf("%s/%s", t.config.BaseURL, bills[0].BillCode), nil
}

// ValidateProvider validates the ToyyibPay configuration
func (t *ToyyibPayProvider) ValidateProvider(ctx context.Context) error {
	if t.config.SecretKey == "" {
		return fmt.Errorf("ToyyibPay secret key is required")
	}
	if t.config.CategoryCode == "" {
		return fmt.Errorf("ToyyibPay category code is required")
	}
	return nil
}
