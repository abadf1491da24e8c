package publishers

import (
	"context"
	"fmt"

	"raycompile/internal/model"
)

// Publisher ships a subscription built from stored profiles somewhere.
type Publisher interface {
	Publish(ctx context.Context, profiles []model.Profile, config map[string]interface{}) error
}

type Factory func() Publisher

var registry = make(map[string]Factory)

func Register(name string, factory Factory) {
	registry[name] = factory
}

func Get(name string) (Publisher, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("publisher plugin '%s' not found", name)
	}
	return factory(), nil
}
