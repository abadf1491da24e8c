package xray

// Outbound is a single engine outbound entry. Field names mirror the
// engine's outbound configuration schema.
type Outbound struct {
	Protocol       string           `json:"protocol" yaml:"protocol"`
	Tag            string           `json:"tag" yaml:"tag"`
	Settings       ProtocolSettings `json:"settings,omitempty" yaml:"settings,omitempty"`
	StreamSettings *StreamSettings  `json:"streamSettings,omitempty" yaml:"streamSettings,omitempty"`
}

// ProtocolSettings is implemented by the five per-protocol settings
// objects and nothing else.
type ProtocolSettings interface {
	protocolSettings()
}

// --- vmess / vless ---

type VMessSettings struct {
	Vnext []VMessServer `json:"vnext" yaml:"vnext"`
}

type VMessServer struct {
	Address string      `json:"address" yaml:"address"`
	Port    int         `json:"port" yaml:"port"`
	Users   []VMessUser `json:"users" yaml:"users"`
}

type VMessUser struct {
	ID       string `json:"id" yaml:"id"`
	AlterID  int    `json:"alterId" yaml:"alterId"`
	Security string `json:"security" yaml:"security"`
}

type VLessSettings struct {
	Vnext []VLessServer `json:"vnext" yaml:"vnext"`
}

type VLessServer struct {
	Address string      `json:"address" yaml:"address"`
	Port    int         `json:"port" yaml:"port"`
	Users   []VLessUser `json:"users" yaml:"users"`
}

type VLessUser struct {
	ID         string `json:"id" yaml:"id"`
	Flow       string `json:"flow" yaml:"flow"`
	Encryption string `json:"encryption" yaml:"encryption"`
}

// --- shadowsocks / trojan ---

type ShadowsocksSettings struct {
	Servers []ShadowsocksServer `json:"servers" yaml:"servers"`
}

type ShadowsocksServer struct {
	Address  string `json:"address" yaml:"address"`
	Port     int    `json:"port" yaml:"port"`
	Method   string `json:"method" yaml:"method"`
	Password string `json:"password" yaml:"password"`
}

type TrojanSettings struct {
	Servers []TrojanServer `json:"servers" yaml:"servers"`
}

type TrojanServer struct {
	Address  string `json:"address" yaml:"address"`
	Port     int    `json:"port" yaml:"port"`
	Password string `json:"password" yaml:"password"`
}

// --- socks ---

type SocksSettings struct {
	Servers []SocksServer `json:"servers" yaml:"servers"`
}

type SocksServer struct {
	Address string      `json:"address" yaml:"address"`
	Port    int         `json:"port" yaml:"port"`
	Users   []SocksUser `json:"users,omitempty" yaml:"users,omitempty"`
}

type SocksUser struct {
	User string `json:"user,omitempty" yaml:"user,omitempty"`
	Pass string `json:"pass" yaml:"pass"`
}

func (*VMessSettings) protocolSettings()       {}
func (*VLessSettings) protocolSettings()       {}
func (*ShadowsocksSettings) protocolSettings() {}
func (*TrojanSettings) protocolSettings()      {}
func (*SocksSettings) protocolSettings()       {}

// StreamSettings carries one transport object and at most one security object.
type StreamSettings struct {
	Network  string `json:"network" yaml:"network"`
	Security string `json:"security" yaml:"security"`

	TCPSettings   *TCPSettings   `json:"tcpSettings,omitempty" yaml:"tcpSettings,omitempty"`
	KCPSettings   *KCPSettings   `json:"kcpSettings,omitempty" yaml:"kcpSettings,omitempty"`
	WSSettings    *WSSettings    `json:"wsSettings,omitempty" yaml:"wsSettings,omitempty"`
	HTTPSettings  *HTTPSettings  `json:"httpSettings,omitempty" yaml:"httpSettings,omitempty"`
	DSSettings    *DSSettings    `json:"dsSettings,omitempty" yaml:"dsSettings,omitempty"`
	QUICSettings  *QUICSettings  `json:"quicSettings,omitempty" yaml:"quicSettings,omitempty"`
	GRPCSettings  *GRPCSettings  `json:"grpcSettings,omitempty" yaml:"grpcSettings,omitempty"`
	XHTTPSettings *XHTTPSettings `json:"xhttpSettings,omitempty" yaml:"xhttpSettings,omitempty"`

	TLSSettings     *TLSSettings     `json:"tlsSettings,omitempty" yaml:"tlsSettings,omitempty"`
	RealitySettings *RealitySettings `json:"realitySettings,omitempty" yaml:"realitySettings,omitempty"`
}

type HeaderSettings struct {
	Type string `json:"type" yaml:"type"`
}

type TCPSettings struct {
	Header HeaderSettings `json:"header" yaml:"header"`
}

type KCPSettings struct {
	Header HeaderSettings `json:"header" yaml:"header"`
	Seed   string         `json:"seed" yaml:"seed"`
}

type WSSettings struct {
	Path    string    `json:"path" yaml:"path"`
	Host    string    `json:"host" yaml:"host"`
	Headers WSHeaders `json:"headers" yaml:"headers"`
}

type WSHeaders struct {
	Host string `json:"Host" yaml:"Host"`
}

type HTTPSettings struct {
	Path string   `json:"path" yaml:"path"`
	Host []string `json:"host" yaml:"host"`
}

type DSSettings struct {
	Path string `json:"path" yaml:"path"`
}

type QUICSettings struct {
	Key string `json:"key" yaml:"key"`
}

type GRPCSettings struct {
	ServiceName string `json:"serviceName" yaml:"serviceName"`
}

type XHTTPSettings struct {
	Path string `json:"path" yaml:"path"`
	Host string `json:"host" yaml:"host"`
}

type TLSSettings struct {
	ServerName    string   `json:"serverName" yaml:"serverName"`
	AllowInsecure bool     `json:"allowInsecure" yaml:"allowInsecure"`
	ALPN          []string `json:"alpn,omitempty" yaml:"alpn,omitempty"`
	Fingerprint   string   `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

type RealitySettings struct {
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	ServerName  string `json:"serverName" yaml:"serverName"`
	PublicKey   string `json:"publicKey,omitempty" yaml:"publicKey,omitempty"`
	ShortID     string `json:"shortId" yaml:"shortId"`
	SpiderX     string `json:"spiderX,omitempty" yaml:"spiderX,omitempty"`
}

// transportCount reports how many transport objects are set.
func (s *StreamSettings) transportCount() int {
	n := 0
	for _, set := range []bool{
		s.TCPSettings != nil, s.KCPSettings != nil, s.WSSettings != nil,
		s.HTTPSettings != nil, s.DSSettings != nil, s.QUICSettings != nil,
		s.GRPCSettings != nil, s.XHTTPSettings != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
