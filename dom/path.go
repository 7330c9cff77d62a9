package dom

import (
	"strconv"
	"strings"
)

// Path returns the absolute slash-joined path of n within its tree,
// computed by walking parent links. The root path is "/"; array elements
// contribute their index as a segment.
func (n *Node) Path() string {
	if n.Parent == nil {
		return "/"
	}
	var seg string
	switch n.Parent.Kind {
	case ObjectKind:
		seg = n.Name
	case ArrayKind:
		seg = strconv.Itoa(n.Index())
	default:
		panic("parent is not a container")
	}
	prefix := n.Parent.Path()
	if prefix == "/" {
		return "/" + seg
	}
	return prefix + "/" + seg
}

// SplitPath splits an absolute path into segments. "/" splits to none.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// JoinPath joins segments into an absolute path.
func JoinPath(segs []string) string {
	return "/" + strings.Join(segs, "/")
}

// Lookup navigates root by an absolute path and returns the node there,
// or nil if no node exists at that path. Array segments must be valid
// in-range indices.
func Lookup(root *Node, path string) *Node {
	res := root
	for _, seg := range SplitPath(path) {
		if res == nil {
			return nil
		}
		switch res.Kind {
		case ObjectKind:
			res = res.Field(seg)
		case ArrayKind:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(res.Children) {
				return nil
			}
			res = res.Children[i]
		case ValueKind, RefKind:
			return nil
		default:
			panic("unknown node kind")
		}
	}
	return res
}
