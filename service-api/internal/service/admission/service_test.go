package admission

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ppv-gate/pkg/clock"
	"ppv-gate/pkg/config"
	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/model"
	"ppv-gate/pkg/video"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger(&config.Config{})
}

// fakeTokenRepo is an in-memory token store
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.Token
	byMail map[string]string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		tokens: make(map[string]*model.Token),
		byMail: make(map[string]string),
	}
}

func (f *fakeTokenRepo) Create(_ context.Context, t *model.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[t.ID] = t
	f.byMail[t.Email] = t.ID
	return nil
}

func (f *fakeTokenRepo) GetByID(_ context.Context, id string) (*model.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[id], nil
}

func (f *fakeTokenRepo) LookupByEmail(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byMail[email], nil
}

// fakeDeviceRepo mirrors the transactional ledger semantics with a mutex
type fakeDeviceRepo struct {
	mu      sync.Mutex
	entries map[string]map[string]model.DeviceEntry // token -> hash -> entry
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{entries: make(map[string]map[string]model.DeviceEntry)}
}

func (f *fakeDeviceRepo) CountDevices(_ context.Context, token string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries[token]), nil
}

func (f *fakeDeviceRepo) IsAdmitted(_ context.Context, token, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[token][hash]
	return ok, nil
}

func (f *fakeDeviceRepo) Admit(_ context.Context, entry *model.DeviceEntry, limit int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	devices := f.entries[entry.Token]
	if devices == nil {
		devices = make(map[string]model.DeviceEntry)
		f.entries[entry.Token] = devices
	}
	if _, ok := devices[entry.DeviceHash]; ok {
		return true, nil
	}
	if len(devices) >= limit {
		return false, nil
	}
	devices[entry.DeviceHash] = *entry
	return true, nil
}

func (f *fakeDeviceRepo) ForceAdmit(_ context.Context, entry *model.DeviceEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	devices := f.entries[entry.Token]
	if devices == nil {
		devices = make(map[string]model.DeviceEntry)
		f.entries[entry.Token] = devices
	}
	devices[entry.DeviceHash] = *entry
	return nil
}

func (f *fakeDeviceRepo) ListByToken(_ context.Context, token string) ([]model.DeviceEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DeviceEntry
	for _, e := range f.entries[token] {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeDeviceRepo) ListAll(_ context.Context) ([]model.DeviceEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DeviceEntry
	for _, devices := range f.entries {
		for _, e := range devices {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeDeviceRepo) Remove(_ context.Context, token, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[token][hash]; !ok {
		return false, nil
	}
	delete(f.entries[token], hash)
	return true, nil
}

func newTestService(t *testing.T) (*Service, *fakeTokenRepo, *fakeDeviceRepo) {
	t.Helper()
	clk, err := clock.NewClock("Asia/Kuala_Lumpur")
	require.NoError(t, err)

	cfg := &config.Config{
		Access: config.AccessConfig{
			DeviceLimit: 2,
			CacheTTL:    time.Minute,
		},
	}

	tokens := newFakeTokenRepo()
	devices := newFakeDeviceRepo()
	playback := video.NewPlaybackURLBuilder(&config.VideoConfig{PlaybackBaseURL: "https://stream.mux.com"})

	return NewService(tokens, devices, nil, clk, playback, cfg), tokens, devices
}

func seedToken(t *testing.T, tokens *fakeTokenRepo, id string, expiresAt time.Time) {
	t.Helper()
	err := tokens.Create(context.Background(), &model.Token{
		ID:         id,
		Email:      id + "@example.com",
		IssuedAt:   time.Now(),
		ExpiresAt:  expiresAt,
		PlaybackID: "pb-" + id,
	})
	require.NoError(t, err)
}

func signal(ua string) *model.DeviceSignal {
	return &model.DeviceSignal{
		IP:         "203.0.113.7",
		UserAgent:  ua,
		ScreenSize: "1920x1080",
		Timezone:   "Asia/Kuala_Lumpur",
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint(signal("agent"))
	b := Fingerprint(signal("agent"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex sha-256
}

func TestFingerprintOrderSensitive(t *testing.T) {
	// swapping two signal fields must change the hash even when the
	// concatenated bytes are similar
	a := Fingerprint(&model.DeviceSignal{IP: "x", UserAgent: "y"})
	b := Fingerprint(&model.DeviceSignal{IP: "y", UserAgent: "x"})
	assert.NotEqual(t, a, b)

	c := Fingerprint(signal("agent"))
	d := Fingerprint(signal("agent2"))
	assert.NotEqual(t, c, d)
}

func TestRegisterOrVerifyAdmitsUpToLimit(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))
	ctx := context.Background()

	first, err := svc.RegisterOrVerify(ctx, "tok1", signal("device-a"))
	require.NoError(t, err)
	assert.Equal(t, "ok", first.Status)
	assert.Equal(t, Fingerprint(signal("device-a")), first.Identity)

	_, err = svc.RegisterOrVerify(ctx, "tok1", signal("device-b"))
	require.NoError(t, err)

	_, err = svc.RegisterOrVerify(ctx, "tok1", signal("device-c"))
	assert.ErrorIs(t, err, ErrDeviceLimit)

	// an already admitted device still passes after the ledger is full
	again, err := svc.RegisterOrVerify(ctx, "tok1", signal("device-a"))
	require.NoError(t, err)
	assert.Equal(t, first.Identity, again.Identity)
}

func TestRegisterOrVerifyUnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.RegisterOrVerify(context.Background(), "nope", signal("device-a"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRegisterOrVerifyExpiredToken(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(-time.Minute))

	_, err := svc.RegisterOrVerify(context.Background(), "tok1", signal("device-a"))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRecheck(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))
	ctx := context.Background()

	res, err := svc.RegisterOrVerify(ctx, "tok1", signal("device-a"))
	require.NoError(t, err)

	verified, err := svc.Recheck(ctx, "tok1", res.Identity)
	require.NoError(t, err)
	assert.Equal(t, "ok", verified.Status)

	// an identity that was never admitted fails without consuming a slot
	_, err = svc.Recheck(ctx, "tok1", "unknown-identity")
	assert.ErrorIs(t, err, ErrDeviceLimit)

	count, err := svc.deviceRepo.CountDevices(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecheckAfterKick(t *testing.T) {
	svc, tokens, devices := newTestService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))
	ctx := context.Background()

	res, err := svc.RegisterOrVerify(ctx, "tok1", signal("device-a"))
	require.NoError(t, err)

	removed, err := devices.Remove(ctx, "tok1", res.Identity)
	require.NoError(t, err)
	require.True(t, removed)

	_, err = svc.Recheck(ctx, "tok1", res.Identity)
	assert.ErrorIs(t, err, ErrDeviceLimit)
}

func TestConcurrentRegistrationNeverExceedsLimit(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))
	ctx := context.Background()

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.RegisterOrVerify(ctx, "tok1", signal(fmt.Sprintf("device-%d", i)))
			if err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrDeviceLimit)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, admitted)
}

func TestPlaybackURL(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))

	url, err := svc.PlaybackURL(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "https://stream.mux.com/pb-tok1.m3u8", url)

	_, err = svc.PlaybackURL(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResume(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	seedToken(t, tokens, "tok1", time.Now().Add(time.Hour))

	id, err := svc.Resume(context.Background(), "tok1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "tok1", id)

	none, err := svc.Resume(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}
