package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"raycompile/internal/logger"
	"raycompile/internal/model"
	"raycompile/internal/publishers"
)

// Publisher writes the subscription to a local file, replacing it atomically.
type Publisher struct{}

func (p *Publisher) Publish(_ context.Context, profiles []model.Profile, config map[string]interface{}) error {
	path, _ := config["path"].(string)
	if path == "" {
		return fmt.Errorf("file publisher requires 'path'")
	}

	payload, err := publishers.GenerateSubscriptionPayload(profiles, config)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sub-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write subscription: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move subscription into place: %w", err)
	}

	logger.Log.Debugf("Wrote %d bytes to %s", len(payload), path)
	return nil
}

func init() {
	publishers.Register("file", func() publishers.Publisher { return &Publisher{} })
}
