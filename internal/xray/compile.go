package xray

import (
	"raycompile/internal/model"
)

type CompileOptions struct {
	Options
	Format Format
	// Full wraps the outbound in a complete engine document.
	Full     bool
	Document DocumentOptions
	// Check validates the result with the engine's config builder.
	Check bool
}

// Compile runs the whole pipeline: profile, outbound, optional document,
// optional engine check, text. Nothing is returned on any failure.
func Compile(p *model.Profile, opts CompileOptions) ([]byte, error) {
	out, err := NewAssembler(opts.Options).Assemble(p)
	if err != nil {
		return nil, err
	}

	if !opts.Full {
		if opts.Check {
			if err := Check(out); err != nil {
				return nil, err
			}
		}
		return Serialize(out, opts.Format)
	}

	doc := BuildDocument(out, opts.Document)
	if opts.Check {
		if err := CheckDocument(doc); err != nil {
			return nil, err
		}
	}
	return Serialize(doc, opts.Format)
}
