package xray

import (
	"fmt"

	"raycompile/internal/model"
)

// applySecurity writes the security name and its matching settings object.
// An empty security is treated as none; anything outside the known set is
// an error rather than a silently empty block.
func applySecurity(p *model.Profile, s *StreamSettings) error {
	switch p.Security {
	case model.SecurityNone, "":
		s.Security = string(model.SecurityNone)
	case model.SecurityTLS:
		s.Security = string(model.SecurityTLS)
		s.TLSSettings = &TLSSettings{
			ServerName:    p.SNI,
			AllowInsecure: p.AllowInsecure,
			ALPN:          p.ALPNList(),
			Fingerprint:   string(p.Fingerprint),
		}
	case model.SecurityReality:
		s.Security = string(model.SecurityReality)
		s.RealitySettings = &RealitySettings{
			Fingerprint: string(p.Fingerprint),
			ServerName:  p.SNI,
			PublicKey:   p.PublicKey,
			ShortID:     p.ShortID,
			SpiderX:     p.SpiderX,
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedSecurity, p.Security)
	}
	return nil
}
