package parser

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"raycompile/internal/model"
)

// ToURI converts a Profile back into its native share link.
func ToURI(p *model.Profile) string {
	switch p.Protocol {
	case model.ProtocolVMess:
		return toVMessURI(p)
	case model.ProtocolShadowsocks:
		return toShadowsocksURI(p)
	case model.ProtocolSocks:
		return toSocksURI(p)
	default:
		return toGenericURI(p)
	}
}

func hostPort(p *model.Profile) string {
	return net.JoinHostPort(p.Address, strconv.Itoa(p.Port))
}

func toVMessURI(p *model.Profile) string {
	v := vmessJSON{
		V:    "2",
		Ps:   p.Remark,
		Add:  p.Address,
		Port: p.Port,
		Id:   p.Password,
		Aid:  p.AlterID,
		Scy:  p.Encryption,
		Net:  string(p.Network),
		Host: p.Host,
		Path: p.Path,
		Sni:  p.SNI,
		Alpn: string(p.ALPN),
		Fp:   string(p.Fingerprint),
	}
	if p.Security != model.SecurityNone {
		v.Tls = string(p.Security)
		v.Insecure = "0"
		if p.AllowInsecure {
			v.Insecure = "1"
		}
	}
	if p.Network == model.NetworkTCP || p.Network == model.NetworkKCP {
		v.Type = string(p.HeaderType)
	}

	b, _ := json.Marshal(v)
	return "vmess://" + base64.StdEncoding.EncodeToString(b)
}

func toShadowsocksURI(p *model.Profile) string {
	userInfo := fmt.Sprintf("%s:%s", p.Encryption, p.Password)

	// SIP002 (safe for special chars)
	safeUser := base64.RawURLEncoding.EncodeToString([]byte(userInfo))

	u := url.URL{
		Scheme:   "ss",
		User:     url.User(safeUser),
		Host:     hostPort(p),
		Fragment: p.Remark,
	}

	if p.HeaderType == model.HeaderHTTP {
		plugin := fmt.Sprintf("obfs-local;obfs=http;obfs-host=%s", p.Host)
		if p.Path != "" {
			plugin += fmt.Sprintf(";path=%s", p.Path)
		}
		q := u.Query()
		q.Set("plugin", plugin)
		u.RawQuery = q.Encode()
	}

	return u.String()
}

func toSocksURI(p *model.Profile) string {
	u := url.URL{
		Scheme:   "socks",
		Host:     hostPort(p),
		Fragment: p.Remark,
	}
	if p.Username != "" || p.Password != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u.String()
}

func toGenericURI(p *model.Profile) string {
	u := url.URL{
		Scheme:   string(p.Protocol),
		Host:     hostPort(p),
		Fragment: p.Remark,
	}
	if p.Password != "" {
		u.User = url.User(p.Password)
	}

	q := url.Values{}

	if p.Network != "" && p.Network != model.NetworkTCP {
		q.Set("type", string(p.Network))
	}
	if p.Protocol == model.ProtocolVLess {
		enc := p.Encryption
		if enc == "" {
			enc = "none"
		}
		q.Set("encryption", enc)
	}
	if p.Security != "" {
		q.Set("security", string(p.Security))
	}
	if p.SNI != "" {
		q.Set("sni", p.SNI)
	}
	if p.Fingerprint != "" {
		q.Set("fp", string(p.Fingerprint))
	}
	if p.Host != "" {
		q.Set("host", p.Host)
	}
	if p.Path != "" {
		switch p.Network {
		case model.NetworkGRPC:
			q.Set("serviceName", p.Path)
		case model.NetworkKCP:
			q.Set("seed", p.Path)
		case model.NetworkQUIC:
			q.Set("key", p.Path)
		default:
			q.Set("path", p.Path)
		}
	}
	if p.HeaderType != "" && p.HeaderType != model.HeaderNone {
		q.Set("headerType", string(p.HeaderType))
	}
	if p.ALPN != "" {
		q.Set("alpn", string(p.ALPN))
	}
	if p.AllowInsecure {
		q.Set("allowInsecure", "1")
	} else {
		q.Set("allowInsecure", "0")
	}

	// Reality
	if p.PublicKey != "" {
		q.Set("pbk", p.PublicKey)
	}
	if p.ShortID != "" {
		q.Set("sid", p.ShortID)
	}
	if p.SpiderX != "" {
		q.Set("spx", p.SpiderX)
	}
	if p.Flow != "" {
		q.Set("flow", p.Flow)
	}

	u.RawQuery = q.Encode()
	return u.String()
}
