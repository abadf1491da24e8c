package parser

import (
	"encoding/base64"
	"net"
	"net/url"
	"strings"

	"raycompile/internal/model"

	"golang.org/x/net/idna"
)

// DecodeBase64 attempts to decode standard and URL-safe base64 strings,
// automatically fixing missing padding.
func DecodeBase64(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	s = strings.TrimRight(s, "=")
	if n := len(s) % 4; n != 0 {
		s += strings.Repeat("=", 4-n)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return string(b), nil
	}

	b, err = base64.URLEncoding.DecodeString(s)
	if err == nil {
		return string(b), nil
	}

	return "", err
}

// FixIllegalUrl cleans up common issues in scraped links.
func FixIllegalUrl(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}

// NormalizeHost converts internationalized domain names to their ASCII
// form. IP literals and names that fail conversion are returned unchanged.
func NormalizeHost(host string) string {
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}

func normalizeNetwork(v string) model.Network {
	switch strings.ToLower(v) {
	case "", "raw", "tcp":
		return model.NetworkTCP
	case "http", "h2":
		return model.NetworkH2
	case "splithttp", "xhttp":
		return model.NetworkXHTTP
	case "mkcp", "kcp":
		return model.NetworkKCP
	case "websocket", "ws":
		return model.NetworkWS
	}
	return model.Network(strings.ToLower(v))
}

func normalizeSecurity(v string) model.Security {
	switch strings.ToLower(v) {
	case "", "none":
		return model.SecurityNone
	case "tls", "xtls":
		return model.SecurityTLS
	}
	return model.Security(strings.ToLower(v))
}

func normalizeHeader(v string) model.HeaderType {
	if v == "" {
		return model.HeaderNone
	}
	return model.HeaderType(v)
}

// ParseQueryParam copies the common transport/security query parameters
// of a share link onto p. The transport specific value that the Profile
// stores in Path is picked by network.
func ParseQueryParam(p *model.Profile, q url.Values) {
	p.Network = normalizeNetwork(q.Get("type"))
	if v := q.Get("headerType"); v != "" {
		p.HeaderType = normalizeHeader(v)
	}
	if v := q.Get("host"); v != "" {
		p.Host = v
	}

	switch p.Network {
	case model.NetworkGRPC:
		p.Path = q.Get("serviceName")
	case model.NetworkKCP:
		p.Path = q.Get("seed")
	case model.NetworkQUIC:
		p.Path = q.Get("key")
	default:
		p.Path = q.Get("path")
	}

	if v := q.Get("security"); v != "" {
		p.Security = normalizeSecurity(v)
	}
	if v := q.Get("sni"); v != "" {
		p.SNI = v
	}
	if v := q.Get("fp"); v != "" {
		p.Fingerprint = model.Fingerprint(v)
	}
	if v := q.Get("alpn"); v != "" {
		p.ALPN = model.ALPN(v)
	}
	if v := q.Get("pbk"); v != "" {
		p.PublicKey = v
	}
	if v := q.Get("sid"); v != "" {
		p.ShortID = v
	}
	if v := q.Get("spx"); v != "" {
		p.SpiderX = v
	}
	if v := q.Get("flow"); v != "" {
		p.Flow = v
	}
	if v := q.Get("encryption"); v != "" {
		p.Encryption = v
	}

	// Insecure mapping (1/0/true/false)
	for _, key := range []string{"allowInsecure", "insecure", "allow_insecure"} {
		if val := q.Get(key); val != "" {
			p.AllowInsecure = val == "1" || val == "true"
			break
		}
	}
}
