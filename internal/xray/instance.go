package xray

import (
	"encoding/json"
	"fmt"
	"net"

	"raycompile/internal/logger"

	"github.com/xtls/xray-core/core"
	"github.com/xtls/xray-core/infra/conf"

	// Import distro to register all protocols/transports
	_ "github.com/xtls/xray-core/main/distro/all"
)

// StartBatch starts a single engine instance exposing each outbound on its
// own local socks port. Outbounds the engine cannot build are skipped; the
// returned map holds the port of every index that was started.
func StartBatch(outs []*Outbound, ports []int) (portMap map[int]int, instance *core.Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("CRITICAL: Xray Core Panic recovered: %v", r)
			err = fmt.Errorf("xray core panic: %v", r)
			if instance != nil {
				instance.Close()
				instance = nil
			}
		}
	}()

	if len(outs) > len(ports) {
		return nil, nil, fmt.Errorf("not enough ports provided: have %d, need %d", len(ports), len(outs))
	}

	doc := &Document{
		Log:       LogSettings{LogLevel: "none", Access: "none"},
		Inbounds:  []Inbound{},
		Outbounds: []*Outbound{},
		Routing:   Routing{DomainStrategy: "AsIs", Rules: []RoutingRule{}},
	}
	portMap = make(map[int]int)

	for i, out := range outs {
		if out == nil {
			continue
		}
		if err := Check(out); err != nil {
			logger.Log.Debugf("Skipping outbound %d: %v", i, err)
			continue
		}

		port := ports[len(portMap)]
		tagIn := fmt.Sprintf("in_%d", i)
		tagOut := fmt.Sprintf("out_%d", i)

		// shallow copy; only the tag differs
		tagged := *out
		tagged.Tag = tagOut
		doc.Outbounds = append(doc.Outbounds, &tagged)

		doc.Inbounds = append(doc.Inbounds, Inbound{
			Tag:      tagIn,
			Listen:   "127.0.0.1",
			Port:     port,
			Protocol: "socks",
			Settings: InboundSettings{Auth: "noauth", UDP: true},
		})
		doc.Routing.Rules = append(doc.Routing.Rules, RoutingRule{
			Type:        "field",
			InboundTag:  []string{tagIn},
			OutboundTag: tagOut,
		})
		portMap[i] = port
	}

	if len(portMap) == 0 {
		return nil, nil, fmt.Errorf("no valid outbounds in batch")
	}

	data, err := Serialize(doc, FormatJSON)
	if err != nil {
		return nil, nil, err
	}
	var cfg conf.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("engine rejected config json: %w", err)
	}

	pbConfig, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}

	instance, err = core.New(pbConfig)
	if err != nil {
		return nil, nil, err
	}

	if err := instance.Start(); err != nil {
		instance.Close()
		return nil, nil, err
	}

	return portMap, instance, nil
}

// FreePorts reserves count loopback ports and releases them for the caller.
func FreePorts(count int) ([]int, error) {
	var listeners []net.Listener
	var ports []int

	for i := 0; i < count; i++ {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			return nil, fmt.Errorf("failed to allocate ports: %w", err)
		}
		listeners = append(listeners, l)
		ports = append(ports, l.Addr().(*net.TCPAddr).Port)
	}

	for _, l := range listeners {
		l.Close()
	}

	return ports, nil
}
