package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"raycompile/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	p := model.NewProfile()
	p.Remark = "s"
	p.Protocol = model.ProtocolSocks
	p.Address = "1.2.3.4"
	p.Port = 1080

	err := (&Publisher{}).Publish(context.Background(), []model.Profile{*p}, map[string]interface{}{"path": path})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "socks://1.2.3.4:1080#s", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestPublishRequiresPath(t *testing.T) {
	err := (&Publisher{}).Publish(context.Background(), nil, map[string]interface{}{})
	assert.Error(t, err)
}
