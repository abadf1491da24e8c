package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	body := "# my nodes\ntrojan://pw@a.example:443#a\n\nvless://id@b.example:443?security=tls#b\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	links, err := (&Collector{}).Collect(context.Background(), map[string]interface{}{"path": path})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"trojan://pw@a.example:443#a",
		"vless://id@b.example:443?security=tls#b",
	}, links)
}

func TestCollectMissingFile(t *testing.T) {
	_, err := (&Collector{}).Collect(context.Background(), map[string]interface{}{
		"path": filepath.Join(t.TempDir(), "absent"),
	})
	assert.Error(t, err)

	_, err = (&Collector{}).Collect(context.Background(), map[string]interface{}{})
	assert.Error(t, err)
}
