package model

import "strings"

type Protocol string

const (
	ProtocolVMess       Protocol = "vmess"
	ProtocolVLess       Protocol = "vless"
	ProtocolShadowsocks Protocol = "shadowsocks"
	ProtocolSocks       Protocol = "socks"
	ProtocolTrojan      Protocol = "trojan"
	ProtocolFreedom     Protocol = "freedom"
	ProtocolBlackhole   Protocol = "blackhole"
	ProtocolHTTP        Protocol = "http"
)

// Protocols lists every protocol value a Profile may carry.
var Protocols = []Protocol{
	ProtocolVMess, ProtocolVLess, ProtocolShadowsocks, ProtocolSocks,
	ProtocolTrojan, ProtocolFreedom, ProtocolBlackhole, ProtocolHTTP,
}

func (p Protocol) Valid() bool { return contains(Protocols, p) }

type Network string

const (
	NetworkTCP          Network = "tcp"
	NetworkKCP          Network = "kcp"
	NetworkWS           Network = "ws"
	NetworkDomainSocket Network = "domainsocket"
	NetworkH2           Network = "h2"
	NetworkGRPC         Network = "grpc"
	NetworkQUIC         Network = "quic"
	NetworkXHTTP        Network = "xhttp"
)

var Networks = []Network{
	NetworkTCP, NetworkKCP, NetworkWS, NetworkDomainSocket,
	NetworkH2, NetworkGRPC, NetworkQUIC, NetworkXHTTP,
}

func (n Network) Valid() bool { return contains(Networks, n) }

type Security string

const (
	SecurityNone    Security = "none"
	SecurityTLS     Security = "tls"
	SecurityReality Security = "reality"
)

var Securities = []Security{SecurityNone, SecurityTLS, SecurityReality}

func (s Security) Valid() bool { return contains(Securities, s) }

// HeaderType is the tcp/kcp obfuscation header.
type HeaderType string

const (
	HeaderNone        HeaderType = "none"
	HeaderHTTP        HeaderType = "http"
	HeaderSRTP        HeaderType = "srtp"
	HeaderUTP         HeaderType = "utp"
	HeaderWechatVideo HeaderType = "wechat-video"
	HeaderDTLS        HeaderType = "dtls"
	HeaderWireguard   HeaderType = "wireguard"
)

var HeaderTypes = []HeaderType{
	HeaderNone, HeaderHTTP, HeaderSRTP, HeaderUTP,
	HeaderWechatVideo, HeaderDTLS, HeaderWireguard,
}

func (h HeaderType) Valid() bool { return contains(HeaderTypes, h) }

// ALPN is a comma separated list of negotiation protocols.
type ALPN string

const (
	ALPNH3H2H1 ALPN = "h3,h2,http/1.1"
	ALPNH3H2   ALPN = "h3,h2"
	ALPNH3     ALPN = "h3"
	ALPNH2     ALPN = "h2"
	ALPNHTTP1  ALPN = "http/1.1"
	ALPNH2H1   ALPN = "h2,http/1.1"
)

var ALPNs = []ALPN{ALPNH3H2H1, ALPNH3H2, ALPNH3, ALPNH2, ALPNHTTP1, ALPNH2H1}

func (a ALPN) Valid() bool { return contains(ALPNs, a) }

// List returns the individual protocols, or nil when unset.
func (a ALPN) List() []string {
	if a == "" {
		return nil
	}
	parts := strings.Split(string(a), ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Fingerprint is the TLS client hello to mimic.
type Fingerprint string

const (
	FingerprintChrome     Fingerprint = "chrome"
	FingerprintFirefox    Fingerprint = "firefox"
	FingerprintSafari     Fingerprint = "safari"
	FingerprintIOS        Fingerprint = "ios"
	FingerprintAndroid    Fingerprint = "android"
	FingerprintEdge       Fingerprint = "edge"
	Fingerprint360        Fingerprint = "360"
	FingerprintQQ         Fingerprint = "qq"
	FingerprintRandom     Fingerprint = "random"
	FingerprintRandomized Fingerprint = "randomized"
)

var Fingerprints = []Fingerprint{
	FingerprintChrome, FingerprintFirefox, FingerprintSafari, FingerprintIOS,
	FingerprintAndroid, FingerprintEdge, Fingerprint360, FingerprintQQ,
	FingerprintRandom, FingerprintRandomized,
}

func (f Fingerprint) Valid() bool { return contains(Fingerprints, f) }

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
