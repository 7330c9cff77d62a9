package dom

import (
	"fmt"
)

// Node is the closed tagged variant over the four node kinds.
//
// Name is unique among siblings of an object; array elements are
// addressed by position and carry an empty Name. Parent is a non-owning
// back-reference used only for path computation: removing a subtree from
// its container is sufficient to free it.
//
// An object owns Children keyed by Name (order is insertion order and
// only matters for display); an array owns Children as a dense ordered
// sequence. A value owns an immutable Scalar payload. A ref owns a path
// string designating another location in a tree; it is not a value until
// resolved.
type Node struct {
	Kind     Kind
	Name     string
	Parent   *Node
	Children []*Node
	Value    Scalar
	Ref      string
}

func NewObject() *Node {
	return &Node{Kind: ObjectKind}
}

func NewArray() *Node {
	return &Node{Kind: ArrayKind}
}

func NewValue(s Scalar) *Node {
	return &Node{Kind: ValueKind, Value: s}
}

func NewRef(path string) *Node {
	return &Node{Kind: RefKind, Ref: path}
}

// Attach adds child under name, rebinding its parent link. Renaming is
// remove-then-reinsert: there is no in-place rename.
func (n *Node) Attach(name string, child *Node) error {
	if n.Kind != ObjectKind {
		return fmt.Errorf("attach on %s node", n.Kind)
	}
	if n.Field(name) != nil {
		return fmt.Errorf("duplicate field %q", name)
	}
	child.Name = name
	child.Parent = n
	n.Children = append(n.Children, child)
	return nil
}

// Append adds child at the end of an array, rebinding its parent link.
func (n *Node) Append(child *Node) error {
	if n.Kind != ArrayKind {
		return fmt.Errorf("append on %s node", n.Kind)
	}
	child.Name = ""
	child.Parent = n
	n.Children = append(n.Children, child)
	return nil
}

// Detach removes n from its container and clears the parent link. The
// detached subtree stays intact and may be re-attached elsewhere.
func (n *Node) Detach() {
	p := n.Parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c != n {
			continue
		}
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
		break
	}
	n.Parent = nil
}

// Field returns the named child of an object, or nil.
func (n *Node) Field(name string) *Node {
	if n.Kind != ObjectKind {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Index returns n's position among its siblings, or -1 for a root.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// SetValue replaces the scalar payload wholesale.
func (n *Node) SetValue(s Scalar) {
	if n.Kind != ValueKind {
		panic(fmt.Sprintf("SetValue on %s node", n.Kind))
	}
	n.Value = s
}

// Replace swaps n for repl in n's container, keeping n's position and,
// under an object, n's name. n is left detached.
func (n *Node) Replace(repl *Node) {
	p := n.Parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c != n {
			continue
		}
		repl.Name = n.Name
		repl.Parent = p
		p.Children[i] = repl
		break
	}
	n.Parent = nil
}

// Clone produces a fully independent deep copy with rebound parent
// links. The clone shares no mutable state with the original; a ref
// node's path string is copied verbatim, unresolved.
func (n *Node) Clone() *Node {
	res := &Node{}
	n.CloneTo(res)
	return res
}

func (n *Node) CloneTo(dst *Node) *Node {
	dst.Kind = n.Kind
	dst.Name = n.Name
	dst.Parent = n.Parent
	dst.Ref = n.Ref
	dst.Value = Scalar{Type: n.Value.Type, Str: n.Value.Str, Bool: n.Value.Bool}
	if n.Value.Int64 != nil {
		i := *n.Value.Int64
		dst.Value.Int64 = &i
	}
	if n.Value.Float64 != nil {
		f := *n.Value.Float64
		dst.Value.Float64 = &f
	}
	if n.Children != nil {
		dst.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cc := &Node{}
			c.CloneTo(cc)
			cc.Parent = dst
			dst.Children[i] = cc
		}
	}
	return dst
}

// Root walks parent links up to the tree root.
func (n *Node) Root() *Node {
	res := n
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Visit walks the subtree depth first. f is called before and after each
// node's children; returning false from the pre call skips the children.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, c := range n.Children {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

// Leaves calls f for every leaf of the subtree with its path. Empty
// containers count as leaves so that origin bookkeeping sees them.
func (n *Node) Leaves(f func(path string, n *Node)) {
	_ = n.Visit(func(c *Node, isPost bool) (bool, error) {
		if isPost {
			return false, nil
		}
		switch c.Kind {
		case ValueKind, RefKind:
			f(c.Path(), c)
		case ObjectKind, ArrayKind:
			if len(c.Children) == 0 {
				f(c.Path(), c)
			}
		default:
			panic("unknown node kind")
		}
		return true, nil
	})
}
