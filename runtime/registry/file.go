package registry

import (
	"fmt"

	"github.com/aledsdavies/callbind/core/types"
)

// signatureFile is the decoded form of a signature document:
//
//	version: 1.0.0
//	commands:
//	  - name: ls
//	    named:
//	      - {name: all, short: a, kind: switch}
//	    optional:
//	      - {name: pattern, shape: pattern}
type signatureFile struct {
	Version  string        `json:"version"`
	Commands []commandSpec `json:"commands"`
}

type commandSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Named       []namedSpec      `json:"named"`
	Required    []positionalSpec `json:"required"`
	Optional    []positionalSpec `json:"optional"`
	Rest        *positionalSpec  `json:"rest"`
}

type namedSpec struct {
	Name        string `json:"name"`
	Short       string `json:"short"`
	Kind        string `json:"kind"`
	Shape       string `json:"shape"`
	Description string `json:"description"`
}

type positionalSpec struct {
	Name        string `json:"name"`
	Shape       string `json:"shape"`
	Description string `json:"description"`
}

func (f *signatureFile) signatures() ([]*types.Signature, error) {
	seen := make(map[string]bool)
	out := make([]*types.Signature, 0, len(f.Commands))

	for i, cmd := range f.Commands {
		if seen[cmd.Name] {
			return nil, &LoadError{Err: fmt.Errorf("command %q defined twice", cmd.Name)}
		}
		seen[cmd.Name] = true

		sig, err := cmd.signature()
		if err != nil {
			return nil, &LoadError{Err: fmt.Errorf("commands[%d] (%s): %w", i, cmd.Name, err)}
		}
		out = append(out, sig)
	}
	return out, nil
}

func (c commandSpec) signature() (*types.Signature, error) {
	sig := types.NewSignature(c.Name)
	sig.Description = c.Description

	for _, n := range c.Named {
		kind, err := types.ParseNamedKind(n.Kind)
		if err != nil {
			return nil, err
		}
		shape, err := types.ParseSyntaxShape(n.Shape)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", n.Name, err)
		}
		sig.Named = append(sig.Named, types.NamedArg{
			Name:        n.Name,
			Short:       n.Short,
			Kind:        kind,
			Shape:       shape,
			Description: n.Description,
		})
	}

	var err error
	if sig.Mandatory, err = positionals(c.Required); err != nil {
		return nil, err
	}
	if sig.Optional, err = positionals(c.Optional); err != nil {
		return nil, err
	}
	if c.Rest != nil {
		rest, err := c.Rest.arg()
		if err != nil {
			return nil, err
		}
		sig.Rest = &rest
	}

	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}

func positionals(specs []positionalSpec) ([]types.PositionalArg, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]types.PositionalArg, 0, len(specs))
	for _, p := range specs {
		arg, err := p.arg()
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
	}
	return out, nil
}

func (p positionalSpec) arg() (types.PositionalArg, error) {
	shape, err := types.ParseSyntaxShape(p.Shape)
	if err != nil {
		return types.PositionalArg{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	return types.PositionalArg{Name: p.Name, Shape: shape, Description: p.Description}, nil
}
