package video

import (
	"context"
	"fmt"
	"ppv-gate/pkg/config"
)

// NewProvisioner creates a stream provisioner based on configuration. A fixed
// playback id takes precedence and skips the collaborator call entirely; with
// no configuration at all, issuance must fail rather than mint tokens bound
// to a dead stream reference.
func NewProvisioner(ctx context.Context, cfg *config.VideoConfig) (Provisioner, error) {
	if cfg.FixedPlaybackID != "" {
		return NewFixedProvisioner(cfg.FixedPlaybackID), nil
	}

	if cfg.MuxTokenID == "" || cfg.MuxTokenSecret == "" {
		return nil, fmt.Errorf("video collaborator not configured: set FIXED_PLAYBACK_ID or Mux credentials")
	}

	return NewMuxProvisioner(*cfg), nil
}
