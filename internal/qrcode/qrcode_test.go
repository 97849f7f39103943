package qrcode

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURL(t *testing.T) {
	url, err := DataURL("A100", "Dell Latitude")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4], "payload decodes to a PNG")
}

// Same inputs, same image.
func TestDataURLIsDeterministic(t *testing.T) {
	a, err := DataURL("A100", "Dell Latitude")
	require.NoError(t, err)
	b, err := DataURL("A100", "Dell Latitude")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := DataURL("A200", "Dell Latitude")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDataURLRejectsOversizedPayload(t *testing.T) {
	_, err := DataURL(strings.Repeat("x", 8000), "name")
	assert.ErrorIs(t, err, ErrEncodingFailed)
}
