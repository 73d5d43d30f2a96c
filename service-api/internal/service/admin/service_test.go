package admin

import (
	"context"
	"sync"
	"testing"
	"time"

	"ppv-gate/pkg/clock"
	"ppv-gate/pkg/config"
	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger(&config.Config{})
}

type fakeTokenRepo struct {
	tokens map[string]*model.Token
}

func (f *fakeTokenRepo) Create(_ context.Context, t *model.Token) error {
	f.tokens[t.ID] = t
	return nil
}

func (f *fakeTokenRepo) GetByID(_ context.Context, id string) (*model.Token, error) {
	return f.tokens[id], nil
}

func (f *fakeTokenRepo) LookupByEmail(context.Context, string) (string, error) {
	return "", nil
}

type fakeDeviceRepo struct {
	mu      sync.Mutex
	entries map[string]map[string]model.DeviceEntry
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

func newTestService(t *testing.T, allowBypass bool) (*Service, *fakeDeviceRepo) {
	t.Helper()
	clk, err := clock.NewClock("Asia/Kuala_Lumpur")
	require.NoError(t, err)

	cfg := &config.Config{
		Access: config.AccessConfig{DeviceLimit: 2},
		Admin:  config.AdminConfig{AllowLimitBypass: allowBypass},
	}

	tokens := &fakeTokenRepo{tokens: map[string]*model.Token{
		"tok1": {
			ID:        "tok1",
			Email:     "alice@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}
	devices := newFakeDeviceRepo()

	return NewService(tokens, devices, clk, cfg), devices
}

func TestListDevices(t *testing.T) {
	svc, devices := newTestService(t, false)
	ctx := context.Background()

	require.NoError(t, devices.ForceAdmit(ctx, &model.DeviceEntry{Token: "tok1", DeviceHash: "hash-a"}))
	require.NoError(t, devices.ForceAdmit(ctx, &model.DeviceEntry{Token: "tok2", DeviceHash: "hash-b"}))

	one, err := svc.ListDevices(ctx, "tok1")
	require.NoError(t, err)
	assert.Len(t, one, 1)

	all, err := svc.ListDevices(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestKick(t *testing.T) {
	svc, devices := newTestService(t, false)
	ctx := context.Background()

	require.NoError(t, devices.ForceAdmit(ctx, &model.DeviceEntry{Token: "tok1", DeviceHash: "hash-a"}))

	err := svc.Kick(ctx, &model.KickDeviceRequest{Token: "tok1", Device: "hash-a"})
	require.NoError(t, err)

	admitted, err := devices.IsAdmitted(ctx, "tok1", "hash-a")
	require.NoError(t, err)
	assert.False(t, admitted)

	err = svc.Kick(ctx, &model.KickDeviceRequest{Token: "tok1", Device: "hash-a"})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestAddDeviceRespectsLimit(t *testing.T) {
	svc, devices := newTestService(t, false)
	ctx := context.Background()

	require.NoError(t, devices.ForceAdmit(ctx, &model.DeviceEntry{Token: "tok1", DeviceHash: "hash-a"}))
	require.NoError(t, devices.ForceAdmit(ctx, &model.DeviceEntry{Token: "tok1", DeviceHash: "hash-b"}))

	err := svc.AddDevice(ctx, &model.AddDeviceRequest{Token: "tok1", Device: "hash-c"})
	assert.ErrorIs(t, err, ErrLimitReached)
}

func TestAddDeviceWithBypass(t *testing.T) {
	svc, devices := newTestService(t, true)
	ctx := context.Background()

	require.NoError(t, devices.ForceAdmit(ctx, &model.DeviceEntry{Token: "tok1", DeviceHash: "hash-a"}))
	require.NoError(t, devices.ForceAdmit(ctx, &model.DeviceEntry{Token: "tok1", DeviceHash: "hash-b"}))

	err := svc.AddDevice(ctx, &model.AddDeviceRequest{Token: "tok1", Device: "hash-c"})
	require.NoError(t, err)

	count, err := devices.CountDevices(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestAddDeviceUnknownToken(t *testing.T) {
	svc, _ := newTestService(t, false)

	err := svc.AddDevice(context.Background(), &model.AddDeviceRequest{Token: "nope", Device: "hash-a"})
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestAddDeviceMarksAdminSource(t *testing.T) {
	svc, devices := newTestService(t, false)
	ctx := context.Background()

	require.NoError(t, svc.AddDevice(ctx, &model.AddDeviceRequest{Token: "tok1", Device: "hash-a"}))

	entries, err := devices.ListByToken(ctx, "tok1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AdminSourceAddress, entries[0].IP)
	assert.Empty(t, entries[0].UserAgent)
}
