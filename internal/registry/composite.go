package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/scriptlab/engine/internal/enginerr"
)

// Composite tries each constituent registry in order, returning the first
// success (spec.md §4.5 "Composite").
type Composite struct {
	Children []Registry
}

// NewComposite constructs a Composite over the given children, in
// resolution order.
func NewComposite(children ...Registry) *Composite {
	return &Composite{Children: children}
}

// Resolve implements Registry.
func (c *Composite) Resolve(ctx context.Context, id string) (string, error) {
	var failures []string
	for i, child := range c.Children {
		text, err := child.Resolve(ctx, id)
		if err == nil {
			return text, nil
		}
		failures = append(failures, fmt.Sprintf("registry %d: %v", i, err))
	}
	return "", enginerr.New(enginerr.Registry, "no registry resolved %q: %s", id, strings.Join(failures, "; "))
}
