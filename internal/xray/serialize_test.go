package xray

import (
	"encoding/json"
	"errors"
	"testing"

	"raycompile/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xtls/xray-core/infra/conf"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"yaml", FormatYAML},
		{" yml ", FormatYAML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("toml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestSerializeJSONUsesEngineKeys(t *testing.T) {
	out, err := Assemble(scenarioA())
	require.NoError(t, err)

	data, err := Serialize(out, FormatJSON)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))

	assert.Equal(t, "vmess", generic["protocol"])
	assert.Equal(t, "proxy", generic["tag"])

	settings := generic["settings"].(map[string]any)
	vnext := settings["vnext"].([]any)
	require.Len(t, vnext, 1)
	user := vnext[0].(map[string]any)["users"].([]any)[0].(map[string]any)
	assert.Equal(t, "uuid-1", user["id"])
	assert.Equal(t, float64(0), user["alterId"])
	assert.Equal(t, "auto", user["security"])

	stream := generic["streamSettings"].(map[string]any)
	assert.Equal(t, "ws", stream["network"])
	assert.Equal(t, "tls", stream["security"])
	ws := stream["wsSettings"].(map[string]any)
	assert.Equal(t, "/ray", ws["path"])
	assert.Equal(t, map[string]any{"Host": "example.com"}, ws["headers"])
	tls := stream["tlsSettings"].(map[string]any)
	assert.Equal(t, false, tls["allowInsecure"])
	assert.Equal(t, "example.com", tls["serverName"])

	for _, absent := range []string{"tcpSettings", "kcpSettings", "httpSettings", "dsSettings", "quicSettings", "grpcSettings", "xhttpSettings", "realitySettings"} {
		assert.NotContains(t, stream, absent)
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	out, err := Assemble(scenarioA())
	require.NoError(t, err)

	for _, f := range []Format{FormatJSON, FormatYAML} {
		first, err := Serialize(out, f)
		require.NoError(t, err)
		second, err := Serialize(out, f)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestSerializeDoesNotEscapeHTML(t *testing.T) {
	p := scenarioA()
	p.Path = "/ray?ed=2048&x=<y>"
	out, err := Assemble(p)
	require.NoError(t, err)

	data, err := Serialize(out, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path": "/ray?ed=2048&x=<y>"`)
}

func TestSerializeYAMLMatchesJSON(t *testing.T) {
	p := scenarioA()
	p.Network = model.NetworkGRPC
	p.Path = "grpc-svc"
	out, err := Assemble(p)
	require.NoError(t, err)

	jsonData, err := Serialize(out, FormatJSON)
	require.NoError(t, err)
	yamlData, err := Serialize(out, FormatYAML)
	require.NoError(t, err)

	var fromJSON, fromYAML map[string]any
	require.NoError(t, json.Unmarshal(jsonData, &fromJSON))
	require.NoError(t, yaml.Unmarshal(yamlData, &fromYAML))

	// yaml decodes integers as int, json as float64
	normalized, err := json.Marshal(fromYAML)
	require.NoError(t, err)
	var roundTripped map[string]any
	require.NoError(t, json.Unmarshal(normalized, &roundTripped))

	assert.Equal(t, fromJSON, roundTripped)
	assert.Contains(t, string(yamlData), "serviceName: grpc-svc")
}

func TestSerializeRejectsInvalidUTF8(t *testing.T) {
	p := scenarioA()
	p.Password = "bad\xff\xfe"
	out, err := Assemble(p)
	require.NoError(t, err)

	for _, f := range []Format{FormatJSON, FormatYAML} {
		data, err := Serialize(out, f)
		assert.Nil(t, data)
		assert.True(t, errors.Is(err, ErrUnencodable), "format %s: %v", f, err)
		assert.Contains(t, err.Error(), "$.settings.vnext[0].users[0].id")
	}
}

func TestSerializeUnknownFormat(t *testing.T) {
	out, err := Assemble(scenarioA())
	require.NoError(t, err)

	_, err = Serialize(out, Format("toml"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestSerializedOutboundIsReadableByEngine(t *testing.T) {
	out, err := Assemble(scenarioA())
	require.NoError(t, err)
	data, err := Serialize(out, FormatJSON)
	require.NoError(t, err)

	var detour conf.OutboundDetourConfig
	require.NoError(t, json.Unmarshal(data, &detour))

	assert.Equal(t, "vmess", detour.Protocol)
	assert.Equal(t, "proxy", detour.Tag)
	require.NotNil(t, detour.Settings)
	require.NotNil(t, detour.StreamSetting)
	require.NotNil(t, detour.StreamSetting.WSSettings)
	assert.Equal(t, "/ray", detour.StreamSetting.WSSettings.Path)
	assert.Equal(t, "example.com", detour.StreamSetting.WSSettings.Headers["Host"])
	require.NotNil(t, detour.StreamSetting.TLSSettings)
	assert.Equal(t, "example.com", detour.StreamSetting.TLSSettings.ServerName)
	assert.False(t, detour.StreamSetting.TLSSettings.Insecure)
}

func TestSerializedRealityIsReadableByEngine(t *testing.T) {
	p := model.NewProfile()
	p.Protocol = model.ProtocolVLess
	p.Address = "r.example"
	p.Port = 443
	p.Password = "b831381d-6324-4d53-ad4f-8cda48b30811"
	p.Network = model.NetworkGRPC
	p.Path = "svc"
	p.Security = model.SecurityReality
	p.SNI = "www.microsoft.com"
	p.PublicKey = "pbk"
	p.ShortID = "6ba85179e30d4fc2"

	out, err := Assemble(p)
	require.NoError(t, err)
	data, err := Serialize(out, FormatJSON)
	require.NoError(t, err)

	var detour conf.OutboundDetourConfig
	require.NoError(t, json.Unmarshal(data, &detour))

	stream := detour.StreamSetting
	require.NotNil(t, stream)
	require.NotNil(t, stream.GRPCSettings)
	assert.Equal(t, "svc", stream.GRPCSettings.ServiceName)
	require.NotNil(t, stream.REALITYSettings)
	assert.Equal(t, "www.microsoft.com", stream.REALITYSettings.ServerName)
	assert.Equal(t, "6ba85179e30d4fc2", stream.REALITYSettings.ShortId)
	assert.Equal(t, "pbk", stream.REALITYSettings.PublicKey)
	assert.Equal(t, "chrome", stream.REALITYSettings.Fingerprint)
	assert.Nil(t, stream.TLSSettings)
}
