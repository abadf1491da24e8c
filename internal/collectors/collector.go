package collectors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"raycompile/internal/xray"
	"raycompile/internal/xray/parser"
)

// Collector fetches raw share links from one kind of source.
type Collector interface {
	Collect(ctx context.Context, config map[string]interface{}) ([]string, error)
}

type Factory func() Collector

var registry = make(map[string]Factory)

func Register(name string, factory Factory) {
	registry[name] = factory
}

func Get(name string) (Collector, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("collector plugin '%s' not found", name)
	}
	return factory(), nil
}

// Names lists registered collector types.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LinksFromBody extracts links from a subscription body, which is either
// plain text or the whole list base64 encoded.
func LinksFromBody(body string) []string {
	if !strings.Contains(body, "://") {
		if decoded, err := parser.DecodeBase64(strings.Join(strings.Fields(body), "")); err == nil {
			body = decoded
		}
	}
	return xray.ExtractLinks(body)
}
