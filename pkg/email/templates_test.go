package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWatchLinkTemplate(t *testing.T) {
	data := WatchLinkTemplateData{
		AppName:     "PPV Gate",
		WatchURL:    "https://example.com/watch/abcd1234",
		DeviceLimit: 2,
		ExpiresAt:   "January 2, 2026 at 3:04 PM",
	}

	body, err := renderTemplate(TemplateWatchLink, data)
	require.NoError(t, err)

	assert.Contains(t, body.HTML, "https://example.com/watch/abcd1234")
	assert.Contains(t, body.HTML, "limited to 2 devices")
	assert.Contains(t, body.Text, "https://example.com/watch/abcd1234")
	assert.Contains(t, body.Text, "January 2, 2026 at 3:04 PM")
}

func TestRenderTemplateUnknown(t *testing.T) {
	_, err := renderTemplate("no_such_template", nil)
	assert.Error(t, err)
}

func TestGetTemplateSubject(t *testing.T) {
	subject := getTemplateSubject(TemplateWatchLink, WatchLinkTemplateData{AppName: "Truboxing PPV"})
	assert.Equal(t, "Your Truboxing PPV access", subject)
}
