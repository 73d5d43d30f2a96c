package admission

import (
	"context"
	"strings"
	"testing"
	"time"

	"ppv-gate/pkg/clock"
	"ppv-gate/pkg/config"
	"ppv-gate/pkg/model"
	"ppv-gate/pkg/redis"
	"ppv-gate/pkg/video"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedService(t *testing.T) (*Service, *fakeTokenRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	host, port, found := strings.Cut(mr.Addr(), ":")
	require.True(t, found)

	cfg := &config.Config{
		Access: config.AccessConfig{
			DeviceLimit: 2,
			CacheTTL:    time.Minute,
		},
		Redis: config.RedisConfig{
			Host: host,
			Port: port,
		},
	}

	cache, err := redis.NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	clk, err := clock.NewClock("Asia/Kuala_Lumpur")
	require.NoError(t, err)

	tokens := newFakeTokenRepo()
	playback := video.NewPlaybackURLBuilder(&config.VideoConfig{PlaybackBaseURL: "https://stream.mux.com"})

	return NewService(tokens, newFakeDeviceRepo(), cache, clk, playback, cfg), tokens, mr
}

func TestLookupTokenPopulatesCache(t *testing.T) {
	svc, tokens, mr := newCachedService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))
	ctx := context.Background()

	got, err := svc.GetToken(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", got.ID)

	require.True(t, mr.Exists("token:tok1"))

	// second lookup is served from the cache even after the row disappears
	tokens.mu.Lock()
	delete(tokens.tokens, "tok1")
	tokens.mu.Unlock()

	got, err = svc.GetToken(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "pb-tok1", got.PlaybackID)
}

func TestLookupTokenMissIsNotCached(t *testing.T) {
	svc, tokens, mr := newCachedService(t)
	ctx := context.Background()

	_, err := svc.GetToken(ctx, "tok1")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, mr.Exists("token:tok1"))

	// issuance can create the token at any moment; the next lookup must see it
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))

	got, err := svc.GetToken(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", got.ID)
}

func TestLookupTokenSurvivesCacheOutage(t *testing.T) {
	svc, tokens, mr := newCachedService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))

	mr.SetError("connection refused")
	defer mr.SetError("")

	got, err := svc.GetToken(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", got.ID)
}

func TestExpiredTokenRejectedEvenWhenCached(t *testing.T) {
	svc, tokens, _ := newCachedService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(50*time.Millisecond))
	ctx := context.Background()

	_, err := svc.GetToken(ctx, "tok1")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	// expiry is evaluated against the clock on every read, cached or not
	_, err = svc.GetToken(ctx, "tok1")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyResponseShape(t *testing.T) {
	svc, tokens, _ := newCachedService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))

	res, err := svc.RegisterOrVerify(context.Background(), "tok1", &model.DeviceSignal{
		IP:         "198.51.100.4",
		UserAgent:  "Mozilla/5.0",
		ScreenSize: "390x844",
		Timezone:   "Asia/Kuala_Lumpur",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Status)
	assert.NotEmpty(t, res.Identity)
}
