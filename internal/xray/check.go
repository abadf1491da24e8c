package xray

import (
	"encoding/json"
	"fmt"
	"os"

	"raycompile/internal/logger"

	"github.com/xtls/xray-core/infra/conf"
)

// Check feeds the serialized outbound through the engine's own config
// reader and builder. It catches schema mismatches and transports the
// engine no longer ships (h2, quic, domainsocket in current releases).
func Check(out *Outbound) (err error) {
	defer recoverBuild(&err)

	data, err := Serialize(out, FormatJSON)
	if err != nil {
		return err
	}

	var detour conf.OutboundDetourConfig
	if err := json.Unmarshal(data, &detour); err != nil {
		return fmt.Errorf("engine rejected outbound json: %w", err)
	}

	var buildErr error
	func() {
		restore := muteLogs()
		defer restore()
		_, buildErr = detour.Build()
	}()
	if buildErr != nil {
		return fmt.Errorf("engine failed to build outbound: %w", buildErr)
	}
	return nil
}

// CheckDocument validates a full configuration the same way.
func CheckDocument(doc *Document) (err error) {
	defer recoverBuild(&err)

	data, err := Serialize(doc, FormatJSON)
	if err != nil {
		return err
	}

	var cfg conf.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("engine rejected config json: %w", err)
	}

	var buildErr error
	func() {
		restore := muteLogs()
		defer restore()
		_, buildErr = cfg.Build()
	}()
	if buildErr != nil {
		return fmt.Errorf("engine failed to build config: %w", buildErr)
	}
	return nil
}

func recoverBuild(err *error) {
	if r := recover(); r != nil {
		logger.Log.Errorf("CRITICAL: Xray config builder panic recovered: %v", r)
		*err = fmt.Errorf("xray config panic: %v", r)
	}
}

// muteLogs silences the deprecation warnings the engine prints while
// building transports.
func muteLogs() func() {
	origStdout := os.Stdout
	origStderr := os.Stderr

	devNull, _ := os.Open(os.DevNull)
	if devNull != nil {
		os.Stdout = devNull
		os.Stderr = devNull
	}

	return func() {
		os.Stdout = origStdout
		os.Stderr = origStderr
		if devNull != nil {
			devNull.Close()
		}
	}
}
