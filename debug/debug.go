// Package debug provides env-var gated diagnostics logging for the
// cascade packages. Set CASCADE_DEBUG_MERGE, CASCADE_DEBUG_RESOLVE,
// CASCADE_DEBUG_MOUNT or CASCADE_DEBUG_LOAD to a truthy value to enable
// the corresponding traces on stderr.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Merge   bool
	Resolve bool
	Mount   bool
	Load    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Merge = boolEnv("CASCADE_DEBUG_MERGE")
	d.Resolve = boolEnv("CASCADE_DEBUG_RESOLVE")
	d.Mount = boolEnv("CASCADE_DEBUG_MOUNT")
	d.Load = boolEnv("CASCADE_DEBUG_LOAD")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Merge() bool {
	return d.Merge
}
func Resolve() bool {
	return d.Resolve
}
func Mount() bool {
	return d.Mount
}
func Load() bool {
	return d.Load
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
