package model

import (
	"strings"

	"github.com/google/uuid"
)

// Profile is one configured remote endpoint. Several string fields are
// overloaded and mean different things per protocol or transport:
//
//	password    vmess/vless: user id | trojan/shadowsocks/socks: secret
//	encryption  vmess: security | vless: encryption | shadowsocks: method
//	host        ws: Host header | h2: host list | xhttp: host
//	path        ws/h2/xhttp/domainsocket: path | grpc: serviceName | quic: key | kcp: seed
type Profile struct {
	UUID   string `gorm:"column:uuid;primaryKey" yaml:"uuid" json:"uuid"`
	Remark string `gorm:"column:remark;not null" yaml:"remark" json:"remark"`
	Speed  int    `gorm:"column:speed;not null" yaml:"speed" json:"speed"`
	Sort   int    `gorm:"column:sort;not null" yaml:"sort" json:"sort"`
	SubID  string `gorm:"column:subid;index" yaml:"subid" json:"subid"`
	Hash   string `gorm:"column:hash;index" yaml:"-" json:"-"`

	Protocol   Protocol `gorm:"column:protocol;not null" yaml:"protocol" json:"protocol"`
	Address    string   `gorm:"column:address;not null" yaml:"address" json:"address"`
	Port       int      `gorm:"column:port;not null" yaml:"port" json:"port"`
	Username   string   `gorm:"column:username" yaml:"username" json:"username"`
	Password   string   `gorm:"column:password" yaml:"password" json:"password"`
	AlterID    int      `gorm:"column:alterId" yaml:"alterId" json:"alterId"`
	Encryption string   `gorm:"column:encryption" yaml:"encryption" json:"encryption"`

	Network    Network    `gorm:"column:network" yaml:"network" json:"network"`
	HeaderType HeaderType `gorm:"column:headerType" yaml:"headerType" json:"headerType"`
	Host       string     `gorm:"column:host" yaml:"host" json:"host"`
	Path       string     `gorm:"column:path" yaml:"path" json:"path"`

	Security      Security    `gorm:"column:security" yaml:"security" json:"security"`
	AllowInsecure bool        `gorm:"column:allowInsecure" yaml:"allowInsecure" json:"allowInsecure"`
	Flow          string      `gorm:"column:flow" yaml:"flow" json:"flow"`
	SNI           string      `gorm:"column:sni" yaml:"sni" json:"sni"`
	ALPN          ALPN        `gorm:"column:alpn" yaml:"alpn" json:"alpn"`
	Fingerprint   Fingerprint `gorm:"column:fingerprint" yaml:"fingerprint" json:"fingerprint"`
	PublicKey     string      `gorm:"column:publicKey" yaml:"publicKey" json:"publicKey"`
	ShortID       string      `gorm:"column:shortId" yaml:"shortId" json:"shortId"`
	SpiderX       string      `gorm:"column:spiderX" yaml:"spiderX" json:"spiderX"`
}

// TableName pins the sqlite table to the name the desktop client uses.
func (Profile) TableName() string { return "profile" }

// NewProfile returns a Profile carrying the client defaults and a fresh uuid.
func NewProfile() *Profile {
	return &Profile{
		UUID:          strings.ToUpper(uuid.NewString()),
		Speed:         -1,
		Protocol:      ProtocolFreedom,
		Network:       NetworkTCP,
		HeaderType:    HeaderNone,
		Security:      SecurityNone,
		AllowInsecure: true,
		ALPN:          ALPNH2H1,
		Fingerprint:   FingerprintChrome,
	}
}

// Clone returns an independent copy.
func (p *Profile) Clone() *Profile {
	c := *p
	return &c
}

// ID is the vmess/vless client identifier.
func (p *Profile) ID() string { return p.Password }

// Method is the shadowsocks cipher.
func (p *Profile) Method() string { return p.Encryption }

// SeedKCP is the mKCP obfuscation seed.
func (p *Profile) SeedKCP() string { return p.Path }

// ServiceName is the gRPC service name.
func (p *Profile) ServiceName() string { return p.Path }

// QUICKey is the QUIC packet encryption key.
func (p *Profile) QUICKey() string { return p.Path }

// ALPNList splits the negotiation protocol enum into its list form.
func (p *Profile) ALPNList() []string {
	return p.ALPN.List()
}

// Measured reports whether a latency has been recorded.
func (p *Profile) Measured() bool { return p.Speed >= 0 }
