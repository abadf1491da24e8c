package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile()

	assert.Len(t, p.UUID, 36)
	assert.Equal(t, -1, p.Speed)
	assert.False(t, p.Measured())
	assert.Equal(t, ProtocolFreedom, p.Protocol)
	assert.Equal(t, NetworkTCP, p.Network)
	assert.Equal(t, HeaderNone, p.HeaderType)
	assert.Equal(t, SecurityNone, p.Security)
	assert.True(t, p.AllowInsecure)
	assert.Equal(t, []string{"h2", "http/1.1"}, p.ALPNList())
	assert.Equal(t, FingerprintChrome, p.Fingerprint)

	assert.NotEqual(t, p.UUID, NewProfile().UUID)
}

func TestOverloadedAccessors(t *testing.T) {
	p := &Profile{Password: "id", Encryption: "aes-128-gcm", Path: "x"}
	assert.Equal(t, "id", p.ID())
	assert.Equal(t, "aes-128-gcm", p.Method())
	assert.Equal(t, "x", p.SeedKCP())
	assert.Equal(t, "x", p.ServiceName())
	assert.Equal(t, "x", p.QUICKey())
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewProfile()
	c := p.Clone()
	c.Remark = "changed"
	assert.Empty(t, p.Remark)
}

func TestALPNList(t *testing.T) {
	assert.Nil(t, ALPN("").List())
	assert.Equal(t, []string{"h3", "h2", "http/1.1"}, ALPNH3H2H1.List())
	assert.Equal(t, []string{"h2", "h3"}, ALPN(" h2 , ,h3").List())
}

func TestEnumValid(t *testing.T) {
	for _, n := range Networks {
		assert.True(t, n.Valid(), n)
	}
	assert.False(t, Network("httpupgrade").Valid())
	assert.True(t, ProtocolBlackhole.Valid())
	assert.False(t, Protocol("wireguard").Valid())
	assert.True(t, SecurityReality.Valid())
	assert.False(t, Security("xtls").Valid())
	assert.True(t, HeaderWireguard.Valid())
	assert.True(t, ALPNH2.Valid())
	assert.False(t, ALPN("h4").Valid())
	assert.True(t, FingerprintRandomized.Valid())
	assert.False(t, Fingerprint("netscape").Valid())
}
