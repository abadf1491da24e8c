package publishers

import (
	"encoding/base64"
	"strings"

	"raycompile/internal/logger"
	"raycompile/internal/model"
	"raycompile/internal/xray/parser"
)

// GenerateSubscriptionPayload renders profiles as one share link per line,
// in the order given. Profiles sharing an endpoint hash are emitted once.
// With config["base64"] set the whole list is base64 encoded, which is what
// most clients expect from a subscription URL.
func GenerateSubscriptionPayload(profiles []model.Profile, config map[string]interface{}) (string, error) {
	seen := make(map[string]struct{}, len(profiles))
	lines := make([]string, 0, len(profiles))

	for i := range profiles {
		p := &profiles[i]
		hash := parser.Hash(p)
		if _, dup := seen[hash]; dup {
			logger.Log.Debugf("Publisher skipped duplicate endpoint %s (%s)", p.Remark, p.UUID)
			continue
		}
		seen[hash] = struct{}{}
		lines = append(lines, parser.ToURI(p))
	}

	finalText := strings.Join(lines, "\n")

	if useBase64, _ := config["base64"].(bool); useBase64 {
		return base64.StdEncoding.EncodeToString([]byte(finalText)), nil
	}
	return finalText, nil
}
