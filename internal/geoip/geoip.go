package geoip

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// Resolver maps IP literals to ISO country codes.
type Resolver struct {
	country *geoip2.Reader
}

// Open loads a GeoLite2/GeoIP2 Country database.
func Open(countryPath string) (*Resolver, error) {
	reader, err := geoip2.Open(countryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open country DB at %s: %w", countryPath, err)
	}
	return &Resolver{country: reader}, nil
}

// Country returns the ISO code for an IP address, or "" for host names
// and addresses the database does not know.
func (r *Resolver) Country(address string) string {
	if r == nil || r.country == nil {
		return ""
	}
	ip := net.ParseIP(strings.Trim(address, "[]"))
	if ip == nil {
		return ""
	}
	c, err := r.country.Country(ip)
	if err != nil {
		return ""
	}
	return c.Country.IsoCode
}

func (r *Resolver) Close() {
	if r != nil && r.country != nil {
		r.country.Close()
	}
}

// FlagEmoji turns a two letter country code into its flag.
func FlagEmoji(countryCode string) string {
	if len(countryCode) != 2 {
		return "🌐"
	}
	countryCode = strings.ToUpper(countryCode)
	return string(rune(countryCode[0])+127397) + string(rune(countryCode[1])+127397)
}
