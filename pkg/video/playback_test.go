package video

import (
	"context"
	"strings"
	"testing"
	"time"

	"ppv-gate/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURLUnsigned(t *testing.T) {
	b := NewPlaybackURLBuilder(&config.VideoConfig{
		PlaybackBaseURL: "https://stream.mux.com",
	})

	url, err := b.BuildURL("abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://stream.mux.com/abc123.m3u8", url)
}

func TestBuildURLSigned(t *testing.T) {
	b := NewPlaybackURLBuilder(&config.VideoConfig{
		PlaybackBaseURL: "https://stream.mux.com",
		SigningSecret:   "test-secret",
		SigningTTL:      time.Minute,
	})

	url, err := b.BuildURL("abc123")
	require.NoError(t, err)
	require.Contains(t, url, "https://stream.mux.com/abc123.m3u8?token=")

	token := url[strings.Index(url, "token=")+len("token="):]
	playbackID, err := b.VerifyPlaybackToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", playbackID)
}

func TestVerifyPlaybackTokenRejectsWrongSecret(t *testing.T) {
	signer := NewPlaybackURLBuilder(&config.VideoConfig{
		PlaybackBaseURL: "https://stream.mux.com",
		SigningSecret:   "secret-a",
		SigningTTL:      time.Minute,
	})
	verifier := NewPlaybackURLBuilder(&config.VideoConfig{
		PlaybackBaseURL: "https://stream.mux.com",
		SigningSecret:   "secret-b",
		SigningTTL:      time.Minute,
	})

	token, err := signer.signPlaybackToken("abc123")
	require.NoError(t, err)

	_, err = verifier.VerifyPlaybackToken(token)
	assert.Error(t, err)
}

func TestFixedProvisioner(t *testing.T) {
	p := NewFixedProvisioner("fixed123")

	ref, err := p.ProvisionStream(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed123", ref.PlaybackID)
	assert.Empty(t, ref.StreamKey)
}
