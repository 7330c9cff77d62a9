package dom

import (
	"cmp"
	"strings"
)

// Compare returns an integer comparing two nodes structurally.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// Names are ignored at the top level (the position in the parent decides
// them); object children compare field by field in stored order.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	switch a.Kind {
	case ValueKind:
		return compareScalars(a.Value, b.Value)
	case RefKind:
		return strings.Compare(a.Ref, b.Ref)
	case ArrayKind:
		return compareChildren(a, b, false)
	case ObjectKind:
		return compareChildren(a, b, true)
	}
	panic("unknown node kind")
}

func compareChildren(a, b *Node, named bool) int {
	if c := cmp.Compare(len(a.Children), len(b.Children)); c != 0 {
		return c
	}
	for i := range a.Children {
		ac, bc := a.Children[i], b.Children[i]
		if named {
			if c := strings.Compare(ac.Name, bc.Name); c != 0 {
				return c
			}
		}
		if c := Compare(ac, bc); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}
