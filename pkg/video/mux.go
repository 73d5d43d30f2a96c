package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"ppv-gate/pkg/config"
	"time"
)

const muxLiveStreamEndpoint = "https://api.mux.com/video/v1/live-streams"

// MuxProvisioner implements Provisioner against the Mux live streams API
type MuxProvisioner struct {
	config config.VideoConfig
	client *http.Client
}

// NewMuxProvisioner creates a new Mux stream provisioner
func NewMuxProvisioner(cfg config.VideoConfig) *MuxProvisioner {
	return &MuxProvisioner{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// ProvisionStream creates a public live stream and returns its playback id
// and stream key
func (m *MuxProvisioner) ProvisionStream(ctx context.Context) (StreamRef, error) {
	payload := map[string]interface{}{
		"playback_policy": []string{"public"},
		"new_asset_settings": map[string]interface{}{
			"playback_policy": []string{"public"},
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return StreamRef{}, fmt.Errorf("failed to marshal stream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, muxLiveStreamEndpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return StreamRef{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(m.config.MuxTokenID, m.config.MuxTokenSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return StreamRef{}, fmt.Errorf("failed to create live stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return StreamRef{}, fmt.Errorf("Mux API returned status %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			StreamKey   string `json:"stream_key"`
			PlaybackIDs []struct {
				ID string `json:"id"`
			} `json:"playback_ids"`
		} `json:"data"`
	}
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return StreamRef{}, fmt.Errorf("failed to decode live stream response: %w", err)
	}

	if len(result.Data.PlaybackIDs) == 0 {
		return StreamRef{}, fmt.Errorf("live stream created without playback ids")
	}

	return StreamRef{
		PlaybackID: result.Data.PlaybackIDs[0].ID,
		StreamKey:  result.Data.StreamKey,
	}, nil
}

// ValidateProvisioner validates the Mux configuration
func (m *MuxProvisioner) ValidateProvisioner(ctx context.Context) error {
	if m.config.MuxTokenID == "" || m.config.MuxTokenSecret == "" {
		return fmt.Errorf("Mux token id and secret are required")
	}
	return nil
}
