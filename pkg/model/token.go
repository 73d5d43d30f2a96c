package model

import (
	"time"
)

// Token represents one purchased access grant. Rows are immutable once
// created; expiry is enforced at read time, never by deletion.
type Token struct {
	ID         string    `json:"token" db:"token"`
	Email      string    `json:"email" db:"email"`
	IssuedAt   time.Time `json:"issued_at" db:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	PlaybackID string    `json:"playback_id" db:"playback_id"`
	StreamKey  string    `json:"stream_key,omitempty" db:"stream_key"`
}

// Expired reports whether the grant is past its expiry at the given instant.
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// PaymentCallback represents the inbound payment-gateway callback payload.
// ToyyibPay delivers it as form fields on POST or query params on GET, and
// uses `status` or `status_id` interchangeably.
type PaymentCallback struct {
	Status   string `form:"status"`
	StatusID string `form:"status_id"`
	OrderID  string `form:"order_id"`
}

// InitiatePaymentRequest represents the payment form submission.
type InitiatePaymentRequest struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required,email"`
}
