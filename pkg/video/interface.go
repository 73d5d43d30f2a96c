package video

import (
	"context"
)

// StreamRef is the opaque playback reference returned by the video
// collaborator. StreamKey is only set for per-purchase live streams.
type StreamRef struct {
	PlaybackID string
	StreamKey  string
}

// Provisioner defines the interface for the video collaborator. A
// provisioning failure must abort issuance - callers never receive a
// placeholder reference.
type Provisioner interface {
	// ProvisionStream creates (or returns) a live stream reference
	ProvisionStream(ctx context.Context) (StreamRef, error)

	// ValidateProvisioner validates the provisioner configuration
	ValidateProvisioner(ctx context.Context) error
}
