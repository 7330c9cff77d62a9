// Package dom provides the document object model for cascade
// configuration trees.
//
// # Overview
//
// Every configuration source, layer, and merged result is represented as
// a tree of dom.Node values. The node is a closed tagged variant over
// four kinds:
//
//   - ObjectKind: named children, unique names among siblings
//   - ArrayKind: dense ordered children
//   - ValueKind: an immutable scalar payload (string/number/bool/null)
//   - RefKind: a path string pointing at another tree location
//
// The kind set is fixed; algorithms dispatching on kinds switch
// exhaustively over all four and panic on anything else.
//
// # Ownership and parents
//
// Every non-root node has exactly one owner; the ownership graph is
// acyclic. Parent is a non-owning back-reference and is only read for
// path computation, so detaching a subtree from its container is
// sufficient to free it. Logical reference edges (RefKind) are distinct
// from ownership and may form cycles; the resolver deals with those.
//
// # Paths
//
// Paths are slash-joined names from the root ("/env/host"); array
// elements contribute their index. Paths are unique within one tree
// snapshot. Use Node.Path to compute a node's path and Lookup to
// navigate one.
//
// # Cloning
//
// Clone produces a fully independent subtree with rebound parent links
// and no shared mutable state. Cloning a ref copies its path string
// verbatim, unresolved.
//
// # Thread safety
//
// Nodes are not safe for concurrent mutation. A tree that has finished
// building is treated as immutable and may then be read concurrently.
package dom
