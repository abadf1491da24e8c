package parser

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"raycompile/internal/model"
)

var (
	regexObfsHost = regexp.MustCompile(`obfs-host=([^;]+)`)
	regexObfsPath = regexp.MustCompile(`path=([^;]+)`)
)

// Parse converts a share link into a new Profile with a fresh uuid.
func Parse(raw string) (*model.Profile, error) {
	raw = FixIllegalUrl(raw)
	parts := strings.SplitN(raw, "://", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid uri format")
	}

	var (
		p   *model.Profile
		err error
	)
	scheme := strings.ToLower(parts[0])
	switch scheme {
	case "vmess":
		p, err = parseVMess(raw)
	case "vless":
		p, err = parseGeneric(raw, model.ProtocolVLess)
	case "trojan":
		p, err = parseTrojan(raw)
	case "ss", "shadowsocks":
		p, err = parseShadowsocks(raw)
	case "socks", "socks5":
		p, err = parseSocks(raw)
	default:
		return nil, fmt.Errorf("unsupported protocol: %s", scheme)
	}
	if err != nil {
		return nil, err
	}

	p.Address = NormalizeHost(p.Address)
	p.SNI = NormalizeHost(p.SNI)
	if p.Port < 1 || p.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", p.Port)
	}
	p.Hash = Hash(p)
	return p, nil
}

// --- VMess ---
type vmessJSON struct {
	V    interface{} `json:"v"`
	Ps   string      `json:"ps"`
	Add  string      `json:"add"`
	Port interface{} `json:"port"`
	Id   string      `json:"id"`
	Aid  interface{} `json:"aid"`
	Scy  string      `json:"scy"`
	Net  string      `json:"net"`
	Type string      `json:"type"`
	Host string      `json:"host"`
	Path string      `json:"path"`
	Tls  string      `json:"tls"`
	Sni  string      `json:"sni"`
	Alpn string      `json:"alpn"`
	Fp   string      `json:"fp"`

	Insecure interface{} `json:"allowInsecure,omitempty"`
}

func parseVMess(raw string) (*model.Profile, error) {
	// Standard VMess URI (vmess://uuid@host:port?...)
	if strings.Contains(raw, "@") && strings.Contains(raw, "?") {
		p, err := parseGeneric(raw, model.ProtocolVMess)
		if err != nil {
			return nil, err
		}
		if p.Encryption == "" {
			p.Encryption = "auto"
		}
		return p, nil
	}

	// Base64 JSON (v2rayN)
	b64 := strings.TrimPrefix(raw, "vmess://")
	if i := strings.IndexByte(b64, '#'); i >= 0 {
		b64 = b64[:i]
	}
	jsonStr, err := DecodeBase64(b64)
	if err != nil {
		return nil, fmt.Errorf("vmess base64 error: %w", err)
	}

	var v vmessJSON
	if err := json.Unmarshal([]byte(jsonStr), &v); err != nil {
		return nil, fmt.Errorf("vmess json error: %w", err)
	}

	p := model.NewProfile()
	p.Protocol = model.ProtocolVMess
	p.Remark = v.Ps
	p.Address = v.Add
	p.Password = v.Id
	p.Encryption = v.Scy
	p.Network = normalizeNetwork(v.Net)
	p.Host = v.Host
	// kcp seed, quic key and grpc service name all travel in "path" already
	p.Path = v.Path
	p.Security = normalizeSecurity(v.Tls)
	p.SNI = v.Sni
	if v.Alpn != "" {
		p.ALPN = model.ALPN(v.Alpn)
	}
	if v.Fp != "" {
		p.Fingerprint = model.Fingerprint(v.Fp)
	}
	// older generators omit the key, keep the profile default then
	if v.Insecure != nil {
		val := strings.ToLower(fmt.Sprintf("%v", v.Insecure))
		p.AllowInsecure = val == "1" || val == "true"
	}
	if p.Encryption == "" {
		p.Encryption = "auto"
	}
	if p.Network == model.NetworkTCP || p.Network == model.NetworkKCP {
		p.HeaderType = normalizeHeader(v.Type)
	}

	// Port and aid can be string or int in JSON
	p.Port, _ = strconv.Atoi(fmt.Sprintf("%v", v.Port))
	if v.Aid != nil {
		p.AlterID, _ = strconv.Atoi(fmt.Sprintf("%v", v.Aid))
	}
	return p, nil
}

// --- VLESS, Trojan, URI-style VMess ---
func parseGeneric(raw string, proto model.Protocol) (*model.Profile, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	p := model.NewProfile()
	p.Protocol = proto
	p.Address = u.Hostname()
	p.Remark = u.Fragment
	if u.User != nil {
		p.Password = u.User.Username()
	}
	p.Port, _ = strconv.Atoi(u.Port())

	q := u.Query()
	ParseQueryParam(p, q)

	if proto == model.ProtocolVLess {
		p.Encryption = q.Get("encryption")
		if p.Encryption == "" {
			p.Encryption = "none"
		}
	}
	return p, nil
}

func parseTrojan(raw string) (*model.Profile, error) {
	p, err := parseGeneric(raw, model.ProtocolTrojan)
	if err != nil {
		return nil, err
	}
	// trojan implies tls unless the link says otherwise
	u, _ := url.Parse(raw)
	if u.Query().Get("security") == "" {
		p.Security = model.SecurityTLS
	}
	return p, nil
}

// --- Shadowsocks ---
func parseShadowsocks(raw string) (*model.Profile, error) {
	u, err := url.Parse(raw)
	if err != nil {
		// Legacy form: ss://base64(method:password@host:port)#remark
		return parseLegacyShadowsocks(raw)
	}
	if u.Port() == "" {
		return parseLegacyShadowsocks(raw)
	}

	p := model.NewProfile()
	p.Protocol = model.ProtocolShadowsocks
	p.Address = u.Hostname()
	p.Remark = u.Fragment
	p.Port, _ = strconv.Atoi(u.Port())

	userInfo := ""
	if u.User != nil {
		userInfo = u.User.String()
		if un, err := url.PathUnescape(userInfo); err == nil {
			userInfo = un
		}
	}

	// SIP002: userinfo is base64 when it carries no colon
	if !strings.Contains(userInfo, ":") {
		if decoded, err := DecodeBase64(userInfo); err == nil {
			userInfo = decoded
		}
	}

	method, password, ok := strings.Cut(userInfo, ":")
	if !ok {
		return nil, fmt.Errorf("invalid shadowsocks userinfo")
	}
	p.Encryption = method
	p.Password = password

	// simple-obfs plugin maps onto a tcp http header
	plugin := u.Query().Get("plugin")
	if strings.Contains(plugin, "obfs=http") {
		p.Network = model.NetworkTCP
		p.HeaderType = model.HeaderHTTP
		if match := regexObfsHost.FindStringSubmatch(plugin); len(match) > 1 {
			p.Host = match[1]
		}
		if match := regexObfsPath.FindStringSubmatch(plugin); len(match) > 1 {
			p.Path = match[1]
		}
	}
	return p, nil
}

func parseLegacyShadowsocks(raw string) (*model.Profile, error) {
	body := strings.TrimPrefix(raw, "ss://")
	remark := ""
	if i := strings.IndexByte(body, '#'); i >= 0 {
		remark, _ = url.PathUnescape(body[i+1:])
		body = body[:i]
	}
	decoded, err := DecodeBase64(body)
	if err != nil {
		return nil, fmt.Errorf("shadowsocks base64 error: %w", err)
	}

	at := strings.LastIndexByte(decoded, '@')
	if at < 0 {
		return nil, fmt.Errorf("invalid shadowsocks link")
	}
	method, password, ok := strings.Cut(decoded[:at], ":")
	if !ok {
		return nil, fmt.Errorf("invalid shadowsocks userinfo")
	}
	u, err := url.Parse("ss://" + decoded[at+1:])
	if err != nil {
		return nil, err
	}

	p := model.NewProfile()
	p.Protocol = model.ProtocolShadowsocks
	p.Remark = remark
	p.Address = u.Hostname()
	p.Port, _ = strconv.Atoi(u.Port())
	p.Encryption = method
	p.Password = password
	return p, nil
}

// --- Socks ---
func parseSocks(raw string) (*model.Profile, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	p := model.NewProfile()
	p.Protocol = model.ProtocolSocks
	p.Address = u.Hostname()
	p.Remark = u.Fragment
	p.Port, _ = strconv.Atoi(u.Port())

	if u.User != nil {
		p.Username = u.User.Username()
		p.Password, _ = u.User.Password()
		// v2rayN style: base64(user:pass)
		if p.Password == "" && p.Username != "" {
			if decoded, err := DecodeBase64(p.Username); err == nil && strings.Contains(decoded, ":") {
				p.Username, p.Password, _ = strings.Cut(decoded, ":")
			}
		}
	}
	return p, nil
}
