// Package mount composes configuration subtrees from independent
// providers into one master tree.
//
// A registry maps mount paths to providers. Refresh loads every
// provider concurrently, splices each subtree under its mount path,
// resolves references once across the composed master (so a reference
// in one provider's subtree may target another's), and validates each
// mounted subtree against its schema. One provider failing to load is
// recorded as a diagnostic at its mount path and does not fail the
// others. A refresh that another refresh overtakes discards its result
// and reports ErrSuperseded; Current always returns the last committed
// snapshot.
package mount

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cascade-format/cascade/debug"
	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/dom"
	"github.com/cascade-format/cascade/resolve"
	"github.com/cascade-format/cascade/schema"
)

// ErrSuperseded reports that a newer refresh started while this one was
// loading; the overtaken result was discarded.
var ErrSuperseded = errors.New("refresh superseded")

// Provider loads one configuration subtree.
type Provider interface {
	Name() string
	Load(ctx context.Context) (*dom.Node, error)
}

// Snapshot is one committed refresh result.
type Snapshot struct {
	Root        *dom.Node
	Diagnostics []diag.Diagnostic
	Generation  uint64
}

type mountpoint struct {
	path     string
	provider Provider
	schema   *schema.Schema
}

// Registry holds ordered mounts and the last committed snapshot.
type Registry struct {
	mu      sync.Mutex
	mounts  []*mountpoint
	gen     uint64
	current *Snapshot
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a provider at path. The path must be absolute and
// non-root, and may not equal or nest within an existing mount path.
func (r *Registry) Register(path string, p Provider) error {
	if p == nil {
		return errors.New("mount: nil provider")
	}
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mounts {
		if m.path == path || nested(m.path, path) || nested(path, m.path) {
			return fmt.Errorf("mount: %s conflicts with existing mount %s", path, m.path)
		}
	}
	r.mounts = append(r.mounts, &mountpoint{path: path, provider: p})
	return nil
}

// SetSchema attaches a schema to an already registered mount. The
// mounted subtree is validated against it on every refresh.
func (r *Registry) SetSchema(path string, s *schema.Schema) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mounts {
		if m.path == path {
			m.schema = s
			return nil
		}
	}
	return fmt.Errorf("mount: no mount at %s", path)
}

// Current returns the last committed snapshot, or nil before the first
// successful refresh.
func (r *Registry) Current() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Refresh loads all providers concurrently and commits a new snapshot.
// Per-provider load failures become diagnostics at the mount path; the
// composed master is still built from the providers that succeeded.
// If a newer Refresh starts before this one commits, the result is
// discarded and ErrSuperseded returned.
func (r *Registry) Refresh(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	mounts := make([]*mountpoint, len(r.mounts))
	copy(mounts, r.mounts)
	r.mu.Unlock()

	roots := make([]*dom.Node, len(mounts))
	loadErrs := make([]error, len(mounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range mounts {
		g.Go(func() error {
			if debug.Mount() {
				debug.Logf("mount: loading %s from %s\n", m.path, m.provider.Name())
			}
			roots[i], loadErrs[i] = m.provider.Load(gctx)
			return nil
		})
	}
	g.Wait()

	var diags []diag.Diagnostic
	master := dom.NewObject()
	for i, m := range mounts {
		if loadErrs[i] != nil {
			diags = append(diags, diag.Errorf(m.path, diag.LoadError,
				"provider %s: %v", m.provider.Name(), loadErrs[i]))
			continue
		}
		if roots[i] == nil {
			diags = append(diags, diag.Errorf(m.path, diag.LoadError,
				"provider %s returned no tree", m.provider.Name()))
			continue
		}
		if err := splice(master, m.path, roots[i].Clone()); err != nil {
			diags = append(diags, diag.Errorf(m.path, diag.LoadError,
				"provider %s: %v", m.provider.Name(), err))
		}
	}

	// one resolve pass over the composed master, so references cross
	// provider boundaries
	resolved, rdiags := resolve.Resolve(master)
	diags = append(diags, rdiags...)

	for _, m := range mounts {
		if m.schema == nil {
			continue
		}
		sub := dom.Lookup(resolved, m.path)
		if sub == nil {
			continue
		}
		vdiags, err := schema.Validate(sub, m.schema, nil)
		if err != nil {
			return nil, fmt.Errorf("mount: validating %s: %w", m.path, err)
		}
		diags = append(diags, vdiags...)
	}
	diag.Sort(diags)

	snap := &Snapshot{Root: resolved, Diagnostics: diags, Generation: gen}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return nil, ErrSuperseded
	}
	r.current = snap
	return snap, nil
}

// splice attaches sub under path, creating intermediate objects.
func splice(master *dom.Node, path string, sub *dom.Node) error {
	segs := dom.SplitPath(path)
	at := master
	for _, seg := range segs[:len(segs)-1] {
		child := at.Field(seg)
		if child == nil {
			child = dom.NewObject()
			if err := at.Attach(seg, child); err != nil {
				return err
			}
		}
		if child.Kind != dom.ObjectKind {
			return fmt.Errorf("mount path crosses %s node at %s", child.Kind, child.Path())
		}
		at = child
	}
	return at.Attach(segs[len(segs)-1], sub)
}

func cleanPath(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("mount: path %q not absolute", path)
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "", errors.New("mount: cannot mount at root")
	}
	for _, seg := range dom.SplitPath(path) {
		if seg == "" {
			return "", fmt.Errorf("mount: empty segment in %q", path)
		}
	}
	return path, nil
}

func nested(outer, inner string) bool {
	return strings.HasPrefix(inner, outer+"/")
}

// Mounts returns the registered mount paths in registration order.
func (r *Registry) Mounts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, len(r.mounts))
	for i, m := range r.mounts {
		paths[i] = m.path
	}
	return paths
}
