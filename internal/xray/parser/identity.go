package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"raycompile/internal/model"
)

// Hash identifies the endpoint a profile points at, ignoring display
// fields (remark, sort, speed, subid, uuid). Two links that produce the same
// outbound hash equal.
func Hash(p *model.Profile) string {
	var parts []string

	// --- 1. Protocol & endpoint ---
	parts = append(parts, strings.ToLower(string(p.Protocol)))
	parts = append(parts, strings.ToLower(p.Address))
	parts = append(parts, strconv.Itoa(p.Port))

	// --- 2. Authentication ---
	parts = append(parts, p.Username, p.Password)

	// "none" and empty mean the same thing for vless
	method := strings.ToLower(p.Encryption)
	if p.Protocol == model.ProtocolVLess && method == "none" {
		method = ""
	}
	parts = append(parts, method)

	// --- 3. Transport ---
	network := strings.ToLower(string(p.Network))
	if network == "" {
		network = string(model.NetworkTCP)
	}
	parts = append(parts, network)

	header := strings.ToLower(string(p.HeaderType))
	if header == string(model.HeaderNone) {
		header = ""
	}
	parts = append(parts, header, p.Host, p.Path)

	// --- 4. Security ---
	security := strings.ToLower(string(p.Security))
	if security == string(model.SecurityNone) {
		security = ""
	}
	parts = append(parts, security, p.SNI, p.Flow, p.PublicKey, p.ShortID)

	signature := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(signature))
	return hex.EncodeToString(hash[:])
}
