package resolve

import (
	"testing"

	"github.com/cascade-format/cascade/codec"
	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/dom"
)

func parse(t *testing.T, doc string) *dom.Node {
	t.Helper()
	root, err := codec.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func TestResolveLeaf(t *testing.T) {
	root := parse(t, `
shared:
  defaultHost: x.example.com
env:
  host:
    $ref: /shared/defaultHost
`)
	resolved, diags := Resolve(root)
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	host := dom.Lookup(resolved, "/env/host")
	if host.Kind != dom.ValueKind || host.Value.Str != "x.example.com" {
		t.Errorf("host: %s %+v", host.Kind, host.Value)
	}
	// input tree untouched
	if dom.Lookup(root, "/env/host").Kind != dom.RefKind {
		t.Errorf("input tree mutated")
	}
}

func TestResolveSubtreeByValue(t *testing.T) {
	root := parse(t, `
defaults:
  retries: 3
  timeouts:
    connect: 5
a:
  $ref: /defaults
b:
  $ref: /defaults
`)
	resolved, diags := Resolve(root)
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	// two resolutions are independently mutable clones
	dom.Lookup(resolved, "/a/timeouts/connect").SetValue(dom.Int(99))
	if got := *dom.Lookup(resolved, "/b/timeouts/connect").Value.Int64; got != 5 {
		t.Errorf("resolutions alias each other: b sees %d", got)
	}
	if got := *dom.Lookup(resolved, "/defaults/timeouts/connect").Value.Int64; got != 5 {
		t.Errorf("resolution aliases the target: target sees %d", got)
	}
}

func TestResolveChained(t *testing.T) {
	// /a needs /b resolved before its own clone is taken
	root := parse(t, `
a:
  $ref: /b
b:
  inner:
    $ref: /x
x: 1
`)
	resolved, diags := Resolve(root)
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if got := *dom.Lookup(resolved, "/a/inner").Value.Int64; got != 1 {
		t.Errorf("chained resolution: got %d", got)
	}
}

func TestResolveThroughRefAncestor(t *testing.T) {
	root := parse(t, `
pick:
  $ref: /alias/sub
alias:
  $ref: /base
base:
  sub: 7
`)
	resolved, diags := Resolve(root)
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if got := *dom.Lookup(resolved, "/pick").Value.Int64; got != 7 {
		t.Errorf("resolution through ref ancestor: got %d", got)
	}
}

func TestResolveMissingTarget(t *testing.T) {
	root := parse(t, `
a:
  $ref: /nope
ok: 1
`)
	resolved, diags := Resolve(root)
	if len(diags) != 1 || diags[0].Kind != diag.UnresolvedReference {
		t.Fatalf("diags: %v", diags)
	}
	if diags[0].Path != "/a" {
		t.Errorf("diag path %q", diags[0].Path)
	}
	// marker left in place, rest of the tree still resolved
	if dom.Lookup(resolved, "/a").Kind != dom.RefKind {
		t.Errorf("marker replaced despite missing target")
	}
	if dom.Lookup(resolved, "/ok") == nil {
		t.Errorf("good sibling lost")
	}
}

func TestResolveCycle(t *testing.T) {
	root := parse(t, `
a:
  $ref: /b
b:
  $ref: /a
`)
	resolved, diags := Resolve(root)
	if len(diags) != 2 {
		t.Fatalf("want two cycle diags, got %v", diags)
	}
	for _, d := range diags {
		if d.Kind != diag.ReferenceCycle {
			t.Errorf("kind %s at %s", d.Kind, d.Path)
		}
	}
	if diags[0].Path != "/a" || diags[1].Path != "/b" {
		t.Errorf("diag paths %q %q", diags[0].Path, diags[1].Path)
	}
	for _, p := range []string{"/a", "/b"} {
		if dom.Lookup(resolved, p).Kind != dom.RefKind {
			t.Errorf("%s lost its unresolved marker", p)
		}
	}
}

func TestResolveTargetThroughSelf(t *testing.T) {
	// the target path descends through the ref itself
	root := parse(t, `
a:
  $ref: /a/b
`)
	resolved, diags := Resolve(root)
	if len(diags) != 1 || diags[0].Kind != diag.ReferenceCycle {
		t.Fatalf("diags: %v", diags)
	}
	if diags[0].Path != "/a" {
		t.Errorf("diag path %q", diags[0].Path)
	}
	if dom.Lookup(resolved, "/a").Kind != dom.RefKind {
		t.Errorf("marker lost")
	}
}

func TestResolveMutualSubtreeRefs(t *testing.T) {
	// each ref points into the other's subtree; neither target can exist
	root := parse(t, `
a:
  $ref: /b/x
b:
  $ref: /a/y
`)
	resolved, diags := Resolve(root)
	if len(diags) != 2 {
		t.Fatalf("diags: %v", diags)
	}
	if diags[0].Path != "/a" || diags[0].Kind != diag.ReferenceCycle {
		t.Errorf("diag 0: %v", diags[0])
	}
	if diags[1].Path != "/b" || diags[1].Kind != diag.UnresolvedReference {
		t.Errorf("diag 1: %v", diags[1])
	}
	for _, p := range []string{"/a", "/b"} {
		if dom.Lookup(resolved, p).Kind != dom.RefKind {
			t.Errorf("%s lost its unresolved marker", p)
		}
	}
}

func TestResolveCycleThroughEnclosingTarget(t *testing.T) {
	// the target encloses the ref; the cycle is reported and the ref
	// must keep its marker, not a stale copy of the enclosing object
	root := parse(t, `
obj:
  r:
    $ref: /obj
`)
	resolved, diags := Resolve(root)
	if len(diags) != 1 || diags[0].Kind != diag.ReferenceCycle {
		t.Fatalf("diags: %v", diags)
	}
	if diags[0].Path != "/obj/r" {
		t.Errorf("diag path %q", diags[0].Path)
	}
	if dom.Lookup(resolved, "/obj/r").Kind != dom.RefKind {
		t.Errorf("marker replaced by a copy of its enclosing target")
	}
}

func TestResolveSelfCycle(t *testing.T) {
	root := parse(t, `
a:
  $ref: /a
`)
	resolved, diags := Resolve(root)
	if len(diags) != 1 || diags[0].Kind != diag.ReferenceCycle {
		t.Fatalf("diags: %v", diags)
	}
	if dom.Lookup(resolved, "/a").Kind != dom.RefKind {
		t.Errorf("self cycle marker lost")
	}
}

func TestResolveChainToMissing(t *testing.T) {
	root := parse(t, `
a:
  $ref: /b
b:
  $ref: /missing
`)
	_, diags := Resolve(root)
	if len(diags) != 2 {
		t.Fatalf("diags: %v", diags)
	}
	for _, d := range diags {
		if d.Kind != diag.UnresolvedReference {
			t.Errorf("kind %s at %s", d.Kind, d.Path)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	root := parse(t, `
a: 1
b:
- x
- y: true
`)
	resolved, diags := Resolve(root)
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if !dom.Equal(root, resolved) {
		t.Errorf("ref-free tree changed by resolution")
	}
	again, diags := Resolve(resolved)
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if !dom.Equal(resolved, again) {
		t.Errorf("resolution not idempotent")
	}
}

func TestResolveCloneIndependence(t *testing.T) {
	root := parse(t, `
shared:
  host: a
env:
  $ref: /shared
`)
	resolved, diags := Resolve(root)
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	dom.Lookup(resolved, "/shared/host").SetValue(dom.String("mutated"))
	if got := dom.Lookup(root, "/shared/host").Value.Str; got != "a" {
		t.Errorf("mutating resolved tree changed input tree: %q", got)
	}
}
