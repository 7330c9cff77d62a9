package dom

import "fmt"

// Kind discriminates the four node variants. The set is closed: every
// algorithm operating on nodes dispatches exhaustively on all four and
// panics on anything else.
type Kind int

const (
	ObjectKind Kind = iota
	ArrayKind
	ValueKind
	RefKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		ObjectKind: "Object",
		ArrayKind:  "Array",
		ValueKind:  "Value",
		RefKind:    "Ref",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Object": ObjectKind,
		"Array":  ArrayKind,
		"Value":  ValueKind,
		"Ref":    RefKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{
		ObjectKind,
		ArrayKind,
		ValueKind,
		RefKind,
	}
}

// IsLeaf reports whether a node of this kind can own children.
func (k Kind) IsLeaf() bool {
	switch k {
	case ObjectKind, ArrayKind:
		return false
	default:
		return true
	}
}
