package cascade

import "fmt"

// OverlapError reports the same leaf path defined by two source units
// within one layer. It is fatal to that layer's intra-layer merge.
type OverlapError struct {
	Path  string
	UnitA string
	UnitB string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlap at %s: defined by both %q and %q",
		e.Path, e.UnitA, e.UnitB)
}
