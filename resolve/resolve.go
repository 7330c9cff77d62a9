// Package resolve replaces symbolic references with concrete clones of
// their targets.
//
// Resolution runs after merging. Every reachable ref whose path names an
// existing location in the same tree is replaced by a deep,
// independently-owned clone of that target subtree; resolving the same
// reference twice yields two independently mutable clones, never an
// alias. A missing target or a reference cycle is reported as a
// diagnostic and the offending ref keeps its unresolved marker — one bad
// reference never blocks resolution of the rest of the tree.
package resolve

import (
	"github.com/cascade-format/cascade/debug"
	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/dom"
)

type resolver struct {
	root     *dom.Node
	visiting map[string]bool
	failed   map[string]diag.Kind
	diags    []diag.Diagnostic
}

// Resolve returns a new tree with every reachable ref replaced by a
// clone of its resolved target, plus the path-sorted diagnostics for
// refs that could not be resolved. The input tree is never mutated. A
// tree with no refs comes back as an equivalent copy.
func Resolve(root *dom.Node) (*dom.Node, []diag.Diagnostic) {
	if root == nil {
		panic("resolve: nil tree")
	}
	r := &resolver{
		root:     root.Clone(),
		visiting: map[string]bool{},
		failed:   map[string]diag.Kind{},
	}
	r.walk(r.root)
	diag.Sort(r.diags)
	return r.root, r.diags
}

func (r *resolver) walk(n *dom.Node) {
	switch n.Kind {
	case dom.ValueKind:
	case dom.RefKind:
		r.resolveRef(n)
	case dom.ObjectKind, dom.ArrayKind:
		// replacement rewrites n.Children in place; the slice header
		// is stable, entries are swapped, so plain iteration is safe
		for _, c := range n.Children {
			r.walk(c)
		}
	default:
		panic("unknown node kind")
	}
}

// resolveRef resolves n's target first if the target itself contains
// unresolved refs, then splices a clone of the target in n's place.
// Depth-first with a per-chain visiting set keyed by the ref node's own
// path: a chain re-entering a ref it is already resolving is a cycle.
// The ref is marked before its target is even looked up, since the
// lookup itself may recurse through this ref (a target path descending
// through the ref, or two refs pointing into each other's subtrees).
func (r *resolver) resolveRef(n *dom.Node) {
	path := n.Path()
	if _, done := r.failed[path]; done {
		// already reported while resolving an enclosing chain
		return
	}
	if r.visiting[path] {
		r.fail(path, diag.ReferenceCycle,
			"reference cycle through %q", n.Ref)
		return
	}
	r.visiting[path] = true
	defer delete(r.visiting, path)

	target := r.lookupResolving(n.Ref)
	if target == nil {
		r.fail(path, diag.UnresolvedReference,
			"reference target %q not found", n.Ref)
		return
	}
	r.walk(target)
	if _, done := r.failed[path]; done {
		// the chain came back through this ref while walking its
		// target; keep the marker, never splice a stale copy
		return
	}

	// the target may have been spliced over; look it up fresh
	target = dom.Lookup(r.root, n.Ref)
	if target == nil || target.Kind == dom.RefKind {
		// the chain below failed; this ref fails the same way
		kind := diag.ReferenceCycle
		if target != nil {
			if k, ok := r.failed[target.Path()]; ok {
				kind = k
			}
		}
		r.fail(path, kind, "reference target %q unresolved", n.Ref)
		return
	}
	clone := target.Clone()
	n.Replace(clone)
	if debug.Resolve() {
		debug.Logf("resolved %s -> %s\n", path, n.Ref)
	}
}

// lookupResolving locates a ref target. When the path crosses an
// ancestor that is itself an unresolved ref, that ancestor is resolved
// first and the lookup retried, so resolution does not depend on walk
// order.
func (r *resolver) lookupResolving(path string) *dom.Node {
	if t := dom.Lookup(r.root, path); t != nil {
		return t
	}
	segs := dom.SplitPath(path)
	for i := len(segs) - 1; i > 0; i-- {
		anc := dom.Lookup(r.root, dom.JoinPath(segs[:i]))
		if anc == nil {
			continue
		}
		if anc.Kind != dom.RefKind {
			return nil
		}
		r.resolveRef(anc)
		return dom.Lookup(r.root, path)
	}
	return nil
}

func (r *resolver) fail(path string, kind diag.Kind, format string, args ...any) {
	if _, ok := r.failed[path]; ok {
		return
	}
	r.failed[path] = kind
	r.diags = append(r.diags, diag.Errorf(path, kind, format, args...))
}
