package admission

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"ppv-gate/pkg/clock"
	"ppv-gate/pkg/config"
	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/model"
	"ppv-gate/pkg/redis"
	"ppv-gate/pkg/video"
	deviceRepo "ppv-gate/service-api/internal/repository/device"
	tokenRepo "ppv-gate/service-api/internal/repository/token"

	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token does not exist.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the token exists but is past expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrDeviceLimit is returned when every device slot is taken by another
	// fingerprint.
	ErrDeviceLimit = errors.New("device limit reached")
)

// TokenCache is the read-through cache for token lookups. Token rows are
// immutable, so cached copies can never go stale on content, only on
// existence.
type TokenCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Service decides whether a device may watch under a given token.
type Service struct {
	tokenRepo  tokenRepo.Repository
	deviceRepo deviceRepo.Repository
	cache      TokenCache
	clock      *clock.Clock
	playback   *video.PlaybackURLBuilder
	config     *config.Config
}

// NewService creates a new admission service. cache may be nil, in which case
// every token lookup hits the database.
func NewService(
	tokenRepo tokenRepo.Repository,
	deviceRepo deviceRepo.Repository,
	cache TokenCache,
	clk *clock.Clock,
	playback *video.PlaybackURLBuilder,
	cfg *config.Config,
) *Service {
	return &Service{
		tokenRepo:  tokenRepo,
		deviceRepo: deviceRepo,
		cache:      cache,
		clock:      clk,
		playback:   playback,
		config:     cfg,
	}
}

// Fingerprint derives the device identity hash from the raw signals. The
// concatenation order is fixed; changing it would orphan every recorded
// device.
func Fingerprint(signal *model.DeviceSignal) string {
	raw := fmt.Sprintf("%s|%s|%s|%s", signal.IP, signal.UserAgent, signal.ScreenSize, signal.Timezone)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GetToken returns a valid token or one of the sentinel errors.
func (s *Service) GetToken(ctx context.Context, tokenID string) (*model.Token, error) {
	t, err := s.lookupToken(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if t == nil {
		return nil, ErrInvalidToken
	}
	if t.Expired(s.clock.Now()) {
		return nil, ErrTokenExpired
	}

	return t, nil
}

// RegisterOrVerify admits the device described by signal under the token, or
// verifies it if its fingerprint is already on record. Returns the identity
// hash the client presents on later rechecks.
func (s *Service) RegisterOrVerify(ctx context.Context, tokenID string, signal *model.DeviceSignal) (*model.VerifyResponse, error) {
	t, err := s.GetToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	deviceHash := Fingerprint(signal)
	entry := &model.DeviceEntry{
		ID:         uuid.New(),
		Token:      t.ID,
		DeviceHash: deviceHash,
		IP:         signal.IP,
		UserAgent:  signal.UserAgent,
		ScreenSize: signal.ScreenSize,
		Timezone:   signal.Timezone,
		AdmittedAt: s.clock.Now(),
	}

	admitted, err := s.deviceRepo.Admit(ctx, entry, s.config.Access.DeviceLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to admit device: %w", err)
	}
	if !admitted {
		logger.Infof("device limit reached for token %s, device %s", t.ID, deviceHash)
		return nil, ErrDeviceLimit
	}

	return &model.VerifyResponse{
		Status:   "ok",
		Identity: deviceHash,
	}, nil
}

// Recheck re-validates a previously admitted device by its identity hash. It
// never consumes a slot; an identity that was kicked simply fails.
func (s *Service) Recheck(ctx context.Context, tokenID, identity string) (*model.VerifyResponse, error) {
	t, err := s.GetToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	admitted, err := s.deviceRepo.IsAdmitted(ctx, t.ID, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to check device: %w", err)
	}
	if !admitted {
		return nil, ErrDeviceLimit
	}

	return &model.VerifyResponse{
		Status:   "ok",
		Identity: identity,
	}, nil
}

// PlaybackURL returns the stream URL for a valid token.
func (s *Service) PlaybackURL(ctx context.Context, tokenID string) (string, error) {
	t, err := s.GetToken(ctx, tokenID)
	if err != nil {
		return "", err
	}

	return s.playback.BuildURL(t.PlaybackID)
}

// Resume returns the token id of the most recent purchase for an email, or
// empty when there is none.
func (s *Service) Resume(ctx context.Context, email string) (string, error) {
	return s.tokenRepo.LookupByEmail(ctx, email)
}

// lookupToken reads through the cache when one is configured. Only hits are
// cached; a missing token must stay a database question because issuance may
// create it at any moment.
func (s *Service) lookupToken(ctx context.Context, tokenID string) (*model.Token, error) {
	key := "token:" + tokenID

	if s.cache != nil {
		var cached model.Token
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			logger.Error(err, "token cache read failed")
		}
	}

	t, err := s.tokenRepo.GetByID(ctx, tokenID)
	if err != nil || t == nil {
		return t, err
	}

	if s.cache != nil {
		err = s.cache.Set(ctx, key, t, s.config.Access.CacheTTL)
		if err != nil {
			logger.Error(err, "token cache write failed")
		}
	}

	return t, nil
}
