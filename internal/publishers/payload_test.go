package publishers

import (
	"encoding/base64"
	"strings"
	"testing"

	"raycompile/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadProfiles() []model.Profile {
	a := model.NewProfile()
	a.Remark = "a"
	a.Protocol = model.ProtocolTrojan
	a.Address = "a.example"
	a.Port = 443
	a.Password = "pw"
	a.Security = model.SecurityTLS

	dup := a.Clone()
	dup.UUID = "OTHER"
	dup.Remark = "a again"

	b := model.NewProfile()
	b.Remark = "b"
	b.Protocol = model.ProtocolSocks
	b.Address = "1.2.3.4"
	b.Port = 1080

	return []model.Profile{*a, *dup, *b}
}

func TestGenerateSubscriptionPayload(t *testing.T) {
	text, err := GenerateSubscriptionPayload(payloadProfiles(), map[string]interface{}{})
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "trojan://pw@a.example:443?"))
	assert.True(t, strings.HasSuffix(lines[0], "#a"))
	assert.Equal(t, "socks://1.2.3.4:1080#b", lines[1])
}

func TestGenerateSubscriptionPayloadBase64(t *testing.T) {
	plain, err := GenerateSubscriptionPayload(payloadProfiles(), nil)
	require.NoError(t, err)

	encoded, err := GenerateSubscriptionPayload(payloadProfiles(), map[string]interface{}{"base64": true})
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, plain, string(decoded))
}

func TestGenerateSubscriptionPayloadEmpty(t *testing.T) {
	text, err := GenerateSubscriptionPayload(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
