package issuance

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"ppv-gate/pkg/clock"
	"ppv-gate/pkg/config"
	"ppv-gate/pkg/email"
	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/model"
	"ppv-gate/pkg/payment"
	"ppv-gate/pkg/video"
	tokenRepo "ppv-gate/service-api/internal/repository/token"
)

var (
	// ErrPaymentFailed is returned when the gateway callback does not report
	// a successful payment.
	ErrPaymentFailed = errors.New("payment not successful")
	// ErrMalformedCallback is returned when the callback reference cannot be
	// mapped back to a buyer email.
	ErrMalformedCallback = errors.New("malformed callback reference")
)

// Service turns a confirmed payment into an access token.
type Service struct {
	tokenRepo   tokenRepo.Repository
	payments    payment.Provider
	provisioner video.Provisioner
	emails      email.Provider
	clock       *clock.Clock
	config      *config.Config
}

// NewService creates a new issuance service instance.
func NewService(
	tokenRepo tokenRepo.Repository,
	payments payment.Provider,
	provisioner video.Provisioner,
	emails email.Provider,
	clk *clock.Clock,
	cfg *config.Config,
) *Service {
	return &Service{
		tokenRepo:   tokenRepo,
		payments:    payments,
		provisioner: provisioner,
		emails:      emails,
		clock:       clk,
		config:      cfg,
	}
}

// InitiatePayment creates a hosted bill for the buyer and returns the payment
// page URL to redirect to.
func (s *Service) InitiatePayment(ctx context.Context, req *model.InitiatePaymentRequest) (string, error) {
	billURL, err := s.payments.CreateBill(ctx, payment.BillRequest{
		Name:        req.Name,
		Email:       req.Email,
		ExternalRef: payment.ExternalRef(req.Email),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create bill: %w", err)
	}

	return billURL, nil
}

// HandleCallback processes the gateway callback. On a confirmed payment it
// issues a token for the buyer and returns its id.
func (s *Service) HandleCallback(ctx context.Context, cb *model.PaymentCallback) (string, error) {
	// the gateway uses status or status_id depending on delivery method
	status := cb.Status
	if status == "" {
		status = cb.StatusID
	}
	if status != payment.StatusSuccess {
		return "", ErrPaymentFailed
	}

	buyerEmail, ok := payment.EmailFromExternalRef(cb.OrderID)
	if !ok {
		return "", ErrMalformedCallback
	}

	return s.IssueForEmail(ctx, buyerEmail)
}

// IssueForEmail mints a fresh token for a buyer email. Every confirmed
// payment gets its own token with its own device allowance; the email index
// moves to the newest one while earlier tokens stay valid until their own
// expiry. Stream provisioning failure aborts issuance; a token must never
// point at a stream that was not created.
func (s *Service) IssueForEmail(ctx context.Context, buyerEmail string) (string, error) {
	ref, err := s.provisioner.ProvisionStream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to provision stream: %w", err)
	}

	tokenID, err := newTokenID()
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	t := &model.Token{
		ID:         tokenID,
		Email:      buyerEmail,
		IssuedAt:   now,
		ExpiresAt:  s.clock.Expiry(now, s.config.Access.TokenTTLDays),
		PlaybackID: ref.PlaybackID,
		StreamKey:  ref.StreamKey,
	}

	err = s.tokenRepo.Create(ctx, t)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	// the buyer is redirected to the watch page anyway, so a failed email
	// must not fail issuance
	err = s.sendWatchLinkEmail(ctx, t)
	if err != nil {
		logger.Error(err, "failed to send watch link email")
	}

	logger.Infof("issued token %s for %s", t.ID, buyerEmail)
	return t.ID, nil
}

// WatchURL returns the watch page URL for a token id.
func (s *Service) WatchURL(tokenID string) string {
	return fmt.Sprintf("%s/watch/%s", s.config.BaseURL, tokenID)
}

func (s *Service) sendWatchLinkEmail(ctx context.Context, t *model.Token) error {
	data := email.WatchLinkTemplateData{
		AppName:     s.config.Email.Templates.AppName,
		WatchURL:    s.WatchURL(t.ID),
		DeviceLimit: s.config.Access.DeviceLimit,
		ExpiresAt:   t.ExpiresAt.Format("January 2, 2006 at 3:04 PM"),
	}

	return s.emails.SendTemplateEmail(ctx, []string{t.Email}, email.TemplateWatchLink, data)
}

// newTokenID generates a random token id
func newTokenID() (string, error) {
	bytes := make([]byte, 8)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
