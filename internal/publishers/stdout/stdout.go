package stdout

import (
	"context"
	"fmt"
	"io"
	"os"

	"raycompile/internal/model"
	"raycompile/internal/publishers"
)

type Publisher struct {
	out io.Writer
}

func (p *Publisher) Publish(_ context.Context, profiles []model.Profile, config map[string]interface{}) error {
	payload, err := publishers.GenerateSubscriptionPayload(profiles, config)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.out, payload)
	return err
}

func init() {
	publishers.Register("stdout", func() publishers.Publisher { return &Publisher{out: os.Stdout} })
}
