package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDefaultUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
database:
  path: ""
output:
  format: yaml
  strict: true
document:
  socks_port: 10808
  http_port: 0
probe:
  timeout: 3s
  workers: 5
collectors:
  - name: feed
    type: http
    subid: s1
    params:
      url: https://sub.example/list
  - name: local
    type: file
publishers:
  - name: out
    type: file
    params:
      path: sub.txt
      base64: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "raycompile.db", cfg.Database.Path)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Output.Strict)
	assert.Equal(t, 10808, cfg.Document.SocksPort)
	assert.Equal(t, 0, cfg.Document.HTTPPort)
	assert.Equal(t, "127.0.0.1", cfg.Document.Listen, "unset keys keep their default")
	assert.True(t, cfg.Document.BypassPrivate)
	assert.Equal(t, 3*time.Second, cfg.Probe.Timeout)
	assert.Equal(t, 5, cfg.Probe.Workers)
	assert.Equal(t, 1, cfg.Probe.Retries)

	require.Len(t, cfg.Collectors, 2)
	assert.Equal(t, "https://sub.example/list", cfg.Collectors[0].Params["url"])
	assert.NotNil(t, cfg.Collectors[1].Params)
	assert.Equal(t, true, cfg.Publishers[0].Params["base64"])
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	cfg := &Config{
		Collectors: []CollectorConfig{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Publishers: []PublisherConfig{{Name: "x"}, {Name: "y"}},
	}

	cfg.FilterCollectors([]string{"c", "a"})
	require.Len(t, cfg.Collectors, 2)
	assert.Equal(t, "a", cfg.Collectors[0].Name)
	assert.Equal(t, "c", cfg.Collectors[1].Name)

	cfg.FilterPublishers(nil)
	assert.Len(t, cfg.Publishers, 2)

	cfg.FilterPublishers([]string{"missing"})
	assert.Empty(t, cfg.Publishers)
}
