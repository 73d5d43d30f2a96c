package video

import (
	"fmt"
	"ppv-gate/pkg/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PlaybackURLBuilder constructs the HLS playback URL for a playback id and,
// when a signing secret is configured, appends a short-lived access token for
// the CDN edge to verify.
type PlaybackURLBuilder struct {
	baseURL       string
	signingSecret []byte
	signingTTL    time.Duration
}

// NewPlaybackURLBuilder creates a playback URL builder from video configuration
func NewPlaybackURLBuilder(cfg *config.VideoConfig) *PlaybackURLBuilder {
	ttl := cfg.SigningTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &PlaybackURLBuilder{
		baseURL:       cfg.PlaybackBaseURL,
		signingSecret: []byte(cfg.SigningSecret),
		signingTTL:    ttl,
	}
}

// BuildURL returns the playback URL for the given playback id
func (b *PlaybackURLBuilder) BuildURL(playbackID string) (string, error) {
	playbackURL := fmt.Sprintf("%s/%s.m3u8", b.baseURL, playbackID)

	if len(b.signingSecret) == 0 {
		return playbackURL, nil
	}

	token, err := b.signPlaybackToken(playbackID)
	if err != nil {
		return "", fmt.Errorf("failed to sign playback token: %w", err)
	}

	return fmt.Sprintf("%s?token=%s", playbackURL, token), nil
}

// signPlaybackToken creates a short-lived HS256 token scoped to one playback id
func (b *PlaybackURLBuilder) signPlaybackToken(playbackID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": playbackID,
		"aud": "v", // video playback
		"iat": now.Unix(),
		"exp": now.Add(b.signingTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(b.signingSecret)
}

// VerifyPlaybackToken validates a playback token and returns the playback id
// it is scoped to. Used by the self-hosted proxy path; CDN deployments verify
// at the edge instead.
func (b *PlaybackURLBuilder) VerifyPlaybackToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return b.signingSecret, nil
	}, jwt.WithAudience("v"), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("invalid playback token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("playback token missing subject")
	}

	return sub, nil
}
