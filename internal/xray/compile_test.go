package xray

import (
	"encoding/json"
	"errors"
	"testing"

	"raycompile/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileOutbound(t *testing.T) {
	data, err := Compile(scenarioA(), CompileOptions{Format: FormatJSON})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "vmess", out["protocol"])
	assert.Contains(t, out, "streamSettings")
}

func TestCompileFullDocument(t *testing.T) {
	data, err := Compile(checkableProfile(), CompileOptions{
		Format:   FormatYAML,
		Full:     true,
		Document: DefaultDocumentOptions(),
		Check:    true,
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "outbounds:")
	assert.Contains(t, string(data), "tag: proxy")
	assert.Contains(t, string(data), "tag: direct")
}

func TestCompileReturnsNothingOnFailure(t *testing.T) {
	p := scenarioA()
	p.Security = "bogus"
	data, err := Compile(p, CompileOptions{})
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, ErrUnsupportedSecurity))

	p = model.NewProfile()
	p.Protocol = model.ProtocolBlackhole
	data, err = Compile(p, CompileOptions{Options: Options{Strict: true}})
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, ErrUnsupportedProtocol))

	p = checkableProfile()
	p.Network = model.NetworkQUIC
	data, err = Compile(p, CompileOptions{Check: true})
	assert.Nil(t, data)
	assert.Error(t, err)
}
