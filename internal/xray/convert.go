package xray

import (
	"errors"
	"fmt"

	"raycompile/internal/logger"
	"raycompile/internal/model"
)

// ProxyTag is the routing tag of the generated outbound. Routing rules
// elsewhere key off this literal.
const ProxyTag = "proxy"

var (
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
	ErrUnsupportedNetwork  = errors.New("unsupported network")
	ErrUnsupportedSecurity = errors.New("unsupported security")
)

type Options struct {
	// Strict turns an unknown protocol or network into an error instead of
	// an outbound with empty settings or no transport object.
	Strict bool
}

// Assembler turns profiles into engine outbounds. It holds no per-call
// state and is safe for concurrent use.
type Assembler struct {
	opts Options
}

func NewAssembler(opts Options) *Assembler {
	return &Assembler{opts: opts}
}

// Assemble converts a profile with the lenient default options.
func Assemble(p *model.Profile) (*Outbound, error) {
	return NewAssembler(Options{}).Assemble(p)
}

// Assemble builds a new Outbound from p. The profile is only read.
func (a *Assembler) Assemble(p *model.Profile) (*Outbound, error) {
	if p == nil {
		return nil, fmt.Errorf("nil profile")
	}

	out := &Outbound{
		Protocol: string(p.Protocol),
		Tag:      ProxyTag,
	}

	// 1. Protocol settings
	if build, ok := protocolBuilders[p.Protocol]; ok {
		out.Settings = build(p)
	} else if a.opts.Strict {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, p.Protocol)
	} else {
		logger.Log.Debugf("Profile %s: protocol %q has no settings builder, leaving settings empty", p.UUID, p.Protocol)
	}

	// 2. Stream settings (transport + security)
	stream := &StreamSettings{Network: string(p.Network)}
	if build, ok := transportBuilders[p.Network]; ok {
		build(p, stream)
	} else if a.opts.Strict {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, p.Network)
	} else {
		logger.Log.Debugf("Profile %s: network %q has no transport builder", p.UUID, p.Network)
	}

	if err := applySecurity(p, stream); err != nil {
		return nil, err
	}

	out.StreamSettings = stream
	return out, nil
}

// Configured reports whether the outbound carries protocol settings and a
// transport object, i.e. whether the engine can actually dial it.
func (o *Outbound) Configured() bool {
	return o.Settings != nil && o.StreamSettings != nil && o.StreamSettings.transportCount() == 1
}
