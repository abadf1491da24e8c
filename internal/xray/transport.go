package xray

import "raycompile/internal/model"

// transportBuilders set exactly one transport field on a fresh StreamSettings.
var transportBuilders = map[model.Network]func(*model.Profile, *StreamSettings){
	model.NetworkTCP:          buildTCP,
	model.NetworkKCP:          buildKCP,
	model.NetworkWS:           buildWS,
	model.NetworkH2:           buildH2,
	model.NetworkDomainSocket: buildDomainSocket,
	model.NetworkQUIC:         buildQUIC,
	model.NetworkGRPC:         buildGRPC,
	model.NetworkXHTTP:        buildXHTTP,
}

func headerType(p *model.Profile) string {
	if p.HeaderType == "" {
		return string(model.HeaderNone)
	}
	return string(p.HeaderType)
}

func buildTCP(p *model.Profile, s *StreamSettings) {
	s.TCPSettings = &TCPSettings{Header: HeaderSettings{Type: headerType(p)}}
}

func buildKCP(p *model.Profile, s *StreamSettings) {
	s.KCPSettings = &KCPSettings{
		Header: HeaderSettings{Type: headerType(p)},
		Seed:   p.SeedKCP(),
	}
}

func buildWS(p *model.Profile, s *StreamSettings) {
	s.WSSettings = &WSSettings{
		Path:    p.Path,
		Host:    p.Host,
		Headers: WSHeaders{Host: p.Host},
	}
}

func buildH2(p *model.Profile, s *StreamSettings) {
	s.HTTPSettings = &HTTPSettings{
		Path: p.Path,
		Host: []string{p.Host},
	}
}

func buildDomainSocket(p *model.Profile, s *StreamSettings) {
	s.DSSettings = &DSSettings{Path: p.Path}
}

func buildQUIC(p *model.Profile, s *StreamSettings) {
	s.QUICSettings = &QUICSettings{Key: p.QUICKey()}
}

func buildGRPC(p *model.Profile, s *StreamSettings) {
	s.GRPCSettings = &GRPCSettings{ServiceName: p.ServiceName()}
}

func buildXHTTP(p *model.Profile, s *StreamSettings) {
	s.XHTTPSettings = &XHTTPSettings{
		Path: p.Path,
		Host: p.Host,
	}
}
