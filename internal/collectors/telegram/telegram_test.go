package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsDefaults(t *testing.T) {
	o, err := parseOptions(map[string]interface{}{
		"api_id":   12345,
		"api_hash": "hash",
		"chats":    []interface{}{-1001234567890, int64(42), "junk"},
	})
	require.NoError(t, err)

	assert.Equal(t, 500, o.limit)
	assert.Equal(t, "telegram.session", o.sessionFile)
	assert.Equal(t, []int64{-1001234567890, 42}, o.chats)
	assert.Empty(t, o.proxyURL)
}

func TestParseOptionsOverrides(t *testing.T) {
	o, err := parseOptions(map[string]interface{}{
		"api_id":       1,
		"api_hash":     "h",
		"limit":        50,
		"session_file": "/tmp/s.session",
		"_proxy_url":   "socks5://127.0.0.1:1080",
	})
	require.NoError(t, err)

	assert.Equal(t, 50, o.limit)
	assert.Equal(t, "/tmp/s.session", o.sessionFile)
	assert.Equal(t, "socks5://127.0.0.1:1080", o.proxyURL)
}

func TestParseOptionsRequiresCredentials(t *testing.T) {
	_, err := parseOptions(map[string]interface{}{"api_hash": "h"})
	assert.Error(t, err)

	_, err = parseOptions(map[string]interface{}{"api_id": 1})
	assert.Error(t, err)
}
