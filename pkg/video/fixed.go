package video

import (
	"context"
	"fmt"
)

// FixedProvisioner returns a pre-provisioned playback id for every purchase.
// Used when the whole event runs on one shared live stream.
type FixedProvisioner struct {
	playbackID string
}

// NewFixedProvisioner creates a fixed-playback provisioner
func NewFixedProvisioner(playbackID string) *FixedProvisioner {
	return &FixedProvisioner{
		playbackID: playbackID,
	}
}

// ProvisionStream returns the configured playback id
func (f *FixedProvisioner) ProvisionStream(ctx context.Context) (StreamRef, error) {
	return StreamRef{PlaybackID: f.playbackID}, nil
}

// ValidateProvisioner validates the fixed playback configuration
func (f *FixedProvisioner) ValidateProvisioner(ctx context.Context) error {
	if f.playbackID == "" {
		return fmt.Errorf("fixed playback id is empty")
	}
	return nil
}
