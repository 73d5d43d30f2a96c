package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClock(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "kuala lumpur",
			timezone: "Asia/Kuala_Lumpur",
		},
		{
			name:     "utc",
			timezone: "UTC",
		},
		{
			name:     "bogus",
			timezone: "Mars/Olympus_Mons",
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClock(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestExpiry(t *testing.T) {
	c, err := NewClock("Asia/Kuala_Lumpur")
	require.NoError(t, err)

	issuedAt := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	expiry := c.Expiry(issuedAt, 7)

	assert.Equal(t, "Asia/Kuala_Lumpur", expiry.Location().String())
	assert.True(t, expiry.Equal(issuedAt.AddDate(0, 0, 7)))
}

func TestParse(t *testing.T) {
	c, err := NewClock("Asia/Kuala_Lumpur")
	require.NoError(t, err)

	parsed, err := c.Parse("2026-01-02T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kuala_Lumpur", parsed.Location().String())
	assert.True(t, parsed.Equal(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)))

	_, err = c.Parse("not-a-timestamp")
	assert.Error(t, err)
}
