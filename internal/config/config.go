package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Database   DatabaseConfig    `yaml:"database"`
	Output     OutputConfig      `yaml:"output"`
	Document   DocumentConfig    `yaml:"document"`
	GeoIP      GeoIPConfig       `yaml:"geoip"`
	Probe      ProbeConfig       `yaml:"probe"`
	Collectors []CollectorConfig `yaml:"collectors"`
	Publishers []PublisherConfig `yaml:"publishers"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // json | yaml
	Strict bool   `yaml:"strict"` // unknown protocol/network is an error
	Full   bool   `yaml:"full"`   // emit the whole engine document
	Check  bool   `yaml:"check"`  // validate with the engine before printing
}

type DocumentConfig struct {
	LogLevel       string `yaml:"log_level"`
	Listen         string `yaml:"listen"`
	SocksPort      int    `yaml:"socks_port"`
	HTTPPort       int    `yaml:"http_port"`
	UDP            bool   `yaml:"udp"`
	Sniffing       bool   `yaml:"sniffing"`
	DomainStrategy string `yaml:"domain_strategy"`
	BypassPrivate  bool   `yaml:"bypass_private"`
}

type GeoIPConfig struct {
	CountryPath string `yaml:"country_path"`
}

type ProbeConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
	Workers int           `yaml:"workers"`
}

type CollectorConfig struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"`
	SubID  string                 `yaml:"subid"`
	Params map[string]interface{} `yaml:"params"`
}

type PublisherConfig struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"`
	SubID  string                 `yaml:"subid"`
	Params map[string]interface{} `yaml:"params"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "raycompile.db"},
		Output:   OutputConfig{Format: "json"},
		Document: DocumentConfig{
			LogLevel:       "warning",
			Listen:         "127.0.0.1",
			SocksPort:      1080,
			HTTPPort:       1087,
			UDP:            true,
			Sniffing:       true,
			DomainStrategy: "AsIs",
			BypassPrivate:  true,
		},
		GeoIP: GeoIPConfig{CountryPath: "GeoLite2-Country.mmdb"},
		Probe: ProbeConfig{
			URL:     "https://www.gstatic.com/generate_204",
			Timeout: 8 * time.Second,
			Retries: 1,
			Workers: 20,
		},
	}
}

// Load reads path over the defaults. An explicit path must exist; a
// missing default config.yaml just yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "raycompile.db"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "json"
	}
	for i := range cfg.Collectors {
		if cfg.Collectors[i].Params == nil {
			cfg.Collectors[i].Params = make(map[string]interface{})
		}
	}
	for i := range cfg.Publishers {
		if cfg.Publishers[i].Params == nil {
			cfg.Publishers[i].Params = make(map[string]interface{})
		}
	}

	return cfg, nil
}

func (c *Config) FilterCollectors(names []string) {
	if len(names) == 0 {
		return
	}
	whitelist := make(map[string]bool)
	for _, n := range names {
		whitelist[n] = true
	}
	var filtered []CollectorConfig
	for _, item := range c.Collectors {
		if whitelist[item.Name] {
			filtered = append(filtered, item)
		}
	}
	c.Collectors = filtered
}

func (c *Config) FilterPublishers(names []string) {
	if len(names) == 0 {
		return
	}
	whitelist := make(map[string]bool)
	for _, n := range names {
		whitelist[n] = true
	}
	var filtered []PublisherConfig
	for _, item := range c.Publishers {
		if whitelist[item.Name] {
			filtered = append(filtered, item)
		}
	}
	c.Publishers = filtered
}
