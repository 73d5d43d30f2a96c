package admin

import (
	"context"
	"errors"
	"fmt"

	"ppv-gate/pkg/clock"
	"ppv-gate/pkg/config"
	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/model"
	deviceRepo "ppv-gate/service-api/internal/repository/device"
	tokenRepo "ppv-gate/service-api/internal/repository/token"

	"github.com/google/uuid"
)

var (
	// ErrUnknownToken is returned when the target token does not exist.
	ErrUnknownToken = errors.New("unknown token")
	// ErrDeviceNotFound is returned by Kick when the device is not on record.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrLimitReached is returned by AddDevice when the ledger is full and
	// limit bypass is not enabled.
	ErrLimitReached = errors.New("device limit reached")
)

// Service backs the operator endpoints for inspecting and correcting the
// device ledger.
type Service struct {
	tokenRepo  tokenRepo.Repository
	deviceRepo deviceRepo.Repository
	clock      *clock.Clock
	config     *config.Config
}

// NewService creates a new admin service instance.
func NewService(tokenRepo tokenRepo.Repository, deviceRepo deviceRepo.Repository, clk *clock.Clock, cfg *config.Config) *Service {
	return &Service{
		tokenRepo:  tokenRepo,
		deviceRepo: deviceRepo,
		clock:      clk,
		config:     cfg,
	}
}

// ListDevices returns admitted devices, for one token when tokenID is set or
// across all tokens otherwise.
func (s *Service) ListDevices(ctx context.Context, tokenID string) ([]model.DeviceEntry, error) {
	if tokenID == "" {
		return s.deviceRepo.ListAll(ctx)
	}
	return s.deviceRepo.ListByToken(ctx, tokenID)
}

// Kick evicts one device from a token, freeing its slot for a new admission.
func (s *Service) Kick(ctx context.Context, req *model.KickDeviceRequest) error {
	removed, err := s.deviceRepo.Remove(ctx, req.Token, req.Device)
	if err != nil {
		return fmt.Errorf("failed to remove device: %w", err)
	}
	if !removed {
		return ErrDeviceNotFound
	}

	logger.Infof("kicked device %s from token %s", req.Device, req.Token)
	return nil
}

// AddDevice records a device hash against a token without the device being
// present. The ceiling still applies unless limit bypass is enabled in
// configuration.
func (s *Service) AddDevice(ctx context.Context, req *model.AddDeviceRequest) error {
	t, err := s.tokenRepo.GetByID(ctx, req.Token)
	if err != nil {
		return fmt.Errorf("failed to look up token: %w", err)
	}
	if t == nil {
		return ErrUnknownToken
	}

	// only the source address marks the entry as admin-made; there is no
	// user agent to record
	entry := &model.DeviceEntry{
		ID:         uuid.New(),
		Token:      req.Token,
		DeviceHash: req.Device,
		IP:         model.AdminSourceAddress,
		AdmittedAt: s.clock.Now(),
	}

	if s.config.Admin.AllowLimitBypass {
		err = s.deviceRepo.ForceAdmit(ctx, entry)
		if err != nil {
			return fmt.Errorf("failed to add device: %w", err)
		}
		logger.Infof("force-added device %s to token %s", req.Device, req.Token)
		return nil
	}

	admitted, err := s.deviceRepo.Admit(ctx, entry, s.config.Access.DeviceLimit)
	if err != nil {
		return fmt.Errorf("failed to add device: %w", err)
	}
	if !admitted {
		return ErrLimitReached
	}

	logger.Infof("added device %s to token %s", req.Device, req.Token)
	return nil
}
