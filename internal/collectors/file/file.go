package file

import (
	"context"
	"fmt"
	"os"

	"raycompile/internal/collectors"
	"raycompile/internal/logger"
)

// Collector reads links from a local file.
type Collector struct{}

func (c *Collector) Collect(_ context.Context, config map[string]interface{}) ([]string, error) {
	path, _ := config["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("missing 'path' in collector config")
	}

	logger.Log.Debugf("Reading links from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return collectors.LinksFromBody(string(data)), nil
}

func init() {
	collectors.Register("file", func() collectors.Collector {
		return &Collector{}
	})
}
