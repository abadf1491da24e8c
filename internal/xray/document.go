package xray

// Document is a complete engine configuration wrapping one proxy outbound
// with local inbounds and a minimal routing table.
type Document struct {
	Log       LogSettings `json:"log" yaml:"log"`
	Inbounds  []Inbound   `json:"inbounds" yaml:"inbounds"`
	Outbounds []*Outbound `json:"outbounds" yaml:"outbounds"`
	Routing   Routing     `json:"routing" yaml:"routing"`
}

type LogSettings struct {
	LogLevel string `json:"loglevel" yaml:"loglevel"`
	Access   string `json:"access,omitempty" yaml:"access,omitempty"`
}

type Inbound struct {
	Tag      string          `json:"tag" yaml:"tag"`
	Listen   string          `json:"listen" yaml:"listen"`
	Port     int             `json:"port" yaml:"port"`
	Protocol string          `json:"protocol" yaml:"protocol"`
	Settings InboundSettings `json:"settings" yaml:"settings"`
	Sniffing *Sniffing       `json:"sniffing,omitempty" yaml:"sniffing,omitempty"`
}

type InboundSettings struct {
	Auth string `json:"auth,omitempty" yaml:"auth,omitempty"`
	UDP  bool   `json:"udp,omitempty" yaml:"udp,omitempty"`
}

type Sniffing struct {
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	DestOverride []string `json:"destOverride" yaml:"destOverride"`
}

type Routing struct {
	DomainStrategy string        `json:"domainStrategy" yaml:"domainStrategy"`
	Rules          []RoutingRule `json:"rules" yaml:"rules"`
}

type RoutingRule struct {
	Type        string   `json:"type" yaml:"type"`
	InboundTag  []string `json:"inboundTag,omitempty" yaml:"inboundTag,omitempty"`
	IP          []string `json:"ip,omitempty" yaml:"ip,omitempty"`
	OutboundTag string   `json:"outboundTag" yaml:"outboundTag"`
}

const (
	DirectTag = "direct"
	BlockTag  = "block"
)

// privateCIDRs are routed direct without needing the engine's geoip files.
var privateCIDRs = []string{
	"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16",
	"169.254.0.0/16", "::1/128", "fc00::/7", "fe80::/10",
}

type DocumentOptions struct {
	LogLevel       string
	Listen         string
	SocksPort      int
	HTTPPort       int
	UDP            bool
	Sniffing       bool
	DomainStrategy string
	BypassPrivate  bool
}

// DefaultDocumentOptions matches the desktop client's local ports.
func DefaultDocumentOptions() DocumentOptions {
	return DocumentOptions{
		LogLevel:       "warning",
		Listen:         "127.0.0.1",
		SocksPort:      1080,
		HTTPPort:       1087,
		UDP:            true,
		Sniffing:       true,
		DomainStrategy: "AsIs",
		BypassPrivate:  true,
	}
}

// BuildDocument wraps out into a runnable configuration. The proxy outbound
// comes first so the engine uses it as the default route. A zero port
// disables the matching inbound.
func BuildDocument(out *Outbound, opts DocumentOptions) *Document {
	doc := &Document{
		Log:      LogSettings{LogLevel: opts.LogLevel},
		Inbounds: []Inbound{},
		Outbounds: []*Outbound{
			out,
			{Protocol: "freedom", Tag: DirectTag},
			{Protocol: "blackhole", Tag: BlockTag},
		},
		Routing: Routing{DomainStrategy: opts.DomainStrategy, Rules: []RoutingRule{}},
	}

	var sniffing *Sniffing
	if opts.Sniffing {
		sniffing = &Sniffing{Enabled: true, DestOverride: []string{"http", "tls"}}
	}

	if opts.SocksPort > 0 {
		doc.Inbounds = append(doc.Inbounds, Inbound{
			Tag:      "socks",
			Listen:   opts.Listen,
			Port:     opts.SocksPort,
			Protocol: "socks",
			Settings: InboundSettings{Auth: "noauth", UDP: opts.UDP},
			Sniffing: sniffing,
		})
	}
	if opts.HTTPPort > 0 {
		doc.Inbounds = append(doc.Inbounds, Inbound{
			Tag:      "http",
			Listen:   opts.Listen,
			Port:     opts.HTTPPort,
			Protocol: "http",
			Sniffing: sniffing,
		})
	}

	if opts.BypassPrivate {
		doc.Routing.Rules = append(doc.Routing.Rules, RoutingRule{
			Type:        "field",
			IP:          append([]string(nil), privateCIDRs...),
			OutboundTag: DirectTag,
		})
	}
	return doc
}
