package xray

import "raycompile/internal/model"

// protocolBuilders maps each supported protocol to the function shaping its
// settings. Every builder returns a fresh value with one server and, where
// the protocol has one, one user.
var protocolBuilders = map[model.Protocol]func(*model.Profile) ProtocolSettings{
	model.ProtocolVMess:       buildVMess,
	model.ProtocolVLess:       buildVLess,
	model.ProtocolShadowsocks: buildShadowsocks,
	model.ProtocolSocks:       buildSocks,
	model.ProtocolTrojan:      buildTrojan,
}

func buildVMess(p *model.Profile) ProtocolSettings {
	security := p.Encryption
	if security == "" {
		security = "auto"
	}
	return &VMessSettings{
		Vnext: []VMessServer{{
			Address: p.Address,
			Port:    p.Port,
			Users: []VMessUser{{
				ID:       p.ID(),
				AlterID:  p.AlterID,
				Security: security,
			}},
		}},
	}
}

func buildVLess(p *model.Profile) ProtocolSettings {
	// vless rejects an empty encryption
	encryption := p.Encryption
	if encryption == "" {
		encryption = "none"
	}
	return &VLessSettings{
		Vnext: []VLessServer{{
			Address: p.Address,
			Port:    p.Port,
			Users: []VLessUser{{
				ID:         p.ID(),
				Flow:       p.Flow,
				Encryption: encryption,
			}},
		}},
	}
}

func buildShadowsocks(p *model.Profile) ProtocolSettings {
	return &ShadowsocksSettings{
		Servers: []ShadowsocksServer{{
			Address:  p.Address,
			Port:     p.Port,
			Method:   p.Method(),
			Password: p.Password,
		}},
	}
}

func buildSocks(p *model.Profile) ProtocolSettings {
	server := SocksServer{
		Address: p.Address,
		Port:    p.Port,
	}
	// A server without credentials is a no-auth socks server.
	if p.Username != "" || p.Password != "" {
		server.Users = []SocksUser{{User: p.Username, Pass: p.Password}}
	}
	return &SocksSettings{Servers: []SocksServer{server}}
}

func buildTrojan(p *model.Profile) ProtocolSettings {
	return &TrojanSettings{
		Servers: []TrojanServer{{
			Address:  p.Address,
			Port:     p.Port,
			Password: p.Password,
		}},
	}
}
