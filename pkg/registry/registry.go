package registry

import (
	"fmt"

	"github.com/aretw0/romote/pkg/domain"
)

// Spec binds a user-typed token to a remote action.
type Spec struct {
	Token            string
	Command          domain.CommandID
	Description      string
	RequiresArgument bool
}

// Registry is an immutable, ordered command table.
// Order is presentation order.
type Registry struct {
	specs []Spec
	index map[string]int
}

// New builds a registry from specs, preserving their order.
// Duplicate or empty tokens are configuration errors.
func New(specs ...Spec) (*Registry, error) {
	r := &Registry{
		specs: make([]Spec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for _, s := range specs {
		if s.Token == "" || s.Description == "" {
			return nil, fmt.Errorf("%w: token=%q description=%q", domain.ErrInvalidSpec, s.Token, s.Description)
		}
		if !s.Command.Valid() {
			return nil, fmt.Errorf("%w: token %q has no command", domain.ErrInvalidSpec, s.Token)
		}
		if s.Command.NeedsArgument() {
			s.RequiresArgument = true
		}
		if _, dup := r.index[s.Token]; dup {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateToken, s.Token)
		}
		r.index[s.Token] = len(r.specs)
		r.specs = append(r.specs, s)
	}

	return r, nil
}

// Lookup finds the spec for token. Tokens are case-sensitive.
func (r *Registry) Lookup(token string) (Spec, bool) {
	i, ok := r.index[token]
	if !ok {
		return Spec{}, false
	}
	return r.specs[i], true
}

// Specs returns the table in presentation order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}
