package cascade

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cascade-format/cascade/codec"
	"github.com/cascade-format/cascade/dom"
)

func docLayer(t *testing.T, name string, index int, doc string) *CascadeLayer {
	t.Helper()
	layer, diags, err := BuildLayer(
		LayerDefinition{Name: name, Index: index},
		[]Unit{{ID: "index", Raw: []byte(doc)}},
	)
	if err != nil {
		t.Fatalf("build layer %s: %v", name, err)
	}
	if len(diags) != 0 {
		t.Fatalf("build layer %s: unexpected diagnostics %v", name, diags)
	}
	return layer
}

func TestMergePrecedence(t *testing.T) {
	base := docLayer(t, "base", 0, "ip: 10.0.0.1\nhost: a\n")
	site := docLayer(t, "site", 1, "ip: 10.0.0.2\n")
	res, err := Merge([]*CascadeLayer{base, site})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got := dom.Lookup(res.Root, "/ip").Value.Str; got != "10.0.0.2" {
		t.Errorf("ip: got %q, want site's value", got)
	}
	if got := dom.Lookup(res.Root, "/host").Value.Str; got != "a" {
		t.Errorf("host: got %q, want base's value", got)
	}
	wantWinners := map[string]int{"/ip": 1, "/host": 0}
	if d := cmp.Diff(wantWinners, res.Winners); d != "" {
		t.Errorf("winners (-want +got):\n%s", d)
	}
	wantOrigins := map[string][]int{"/ip": {0, 1}, "/host": {0}}
	if d := cmp.Diff(wantOrigins, res.Origins); d != "" {
		t.Errorf("origins (-want +got):\n%s", d)
	}
}

func TestMergeArrayReplaceNotPatch(t *testing.T) {
	l0 := docLayer(t, "l0", 0, "p:\n- 1\n- 2\n- 3\n")
	l1 := docLayer(t, "l1", 1, "p:\n- 9\n")
	res, err := Merge([]*CascadeLayer{l0, l1})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	p := dom.Lookup(res.Root, "/p")
	if p == nil || p.Kind != dom.ArrayKind {
		t.Fatalf("missing merged array")
	}
	if len(p.Children) != 1 {
		t.Fatalf("array patched element-wise: %d elements", len(p.Children))
	}
	if got := *p.Children[0].Value.Int64; got != 9 {
		t.Errorf("merged element: %d", got)
	}
}

func TestMergeKindMismatchReplaces(t *testing.T) {
	l0 := docLayer(t, "l0", 0, "svc:\n  a: 1\n  b: 2\n")
	l1 := docLayer(t, "l1", 1, "svc: disabled\n")
	res, err := Merge([]*CascadeLayer{l0, l1})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	svc := dom.Lookup(res.Root, "/svc")
	if svc.Kind != dom.ValueKind || svc.Value.Str != "disabled" {
		t.Errorf("higher layer did not replace object: %v", svc.Kind)
	}
}

func TestMergeDeterministic(t *testing.T) {
	mk := func() []*CascadeLayer {
		return []*CascadeLayer{
			docLayer(t, "a", 0, "x: 1\nz:\n  k: v\n"),
			docLayer(t, "b", 1, "y: 2\nz:\n  j: w\n"),
			docLayer(t, "c", 2, "x: 3\n"),
		}
	}
	r1, err := Merge(mk())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	r2, err := Merge(mk())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	d1, err := codec.Serialize(r1.Root)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	d2, err := codec.Serialize(r2.Root)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Errorf("merged trees not byte-identical:\n%s\n%s", d1, d2)
	}
	if d := cmp.Diff(r1.Winners, r2.Winners); d != "" {
		t.Errorf("winners differ:\n%s", d)
	}
	if d := cmp.Diff(r1.Origins, r2.Origins); d != "" {
		t.Errorf("origins differ:\n%s", d)
	}
}

func TestMergeIndependentOfLayers(t *testing.T) {
	base := docLayer(t, "base", 0, "a:\n  b: 1\n")
	res, err := Merge([]*CascadeLayer{base})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	dom.Lookup(res.Root, "/a/b").SetValue(dom.String("edited"))
	if got := dom.Lookup(base.Root, "/a/b"); got.Value.Type != dom.NumberScalar {
		t.Errorf("editing merged view mutated the source layer: %+v", got.Value)
	}
}

func TestMergeContractViolations(t *testing.T) {
	base := docLayer(t, "base", 0, "a: 1\n")
	if _, err := Merge([]*CascadeLayer{base, nil}); err == nil {
		t.Errorf("nil layer accepted")
	}
	dup := docLayer(t, "dup", 0, "b: 2\n")
	if _, err := Merge([]*CascadeLayer{base, dup}); err == nil {
		t.Errorf("duplicate index accepted")
	}
}

func TestIntraOverlap(t *testing.T) {
	_, _, err := BuildLayer(
		LayerDefinition{Name: "l", Index: 0},
		[]Unit{
			{ID: "net", Raw: []byte("dns: 1.1.1.1\n")},
			{ID: "net/dns", Raw: []byte("2.2.2.2\n")},
		},
	)
	var overlap *OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected OverlapError, got %v", err)
	}
	if overlap.Path != "/net/dns" {
		t.Errorf("overlap path %q", overlap.Path)
	}
	if overlap.UnitA != "net" || overlap.UnitB != "net/dns" {
		t.Errorf("overlap units %q %q", overlap.UnitA, overlap.UnitB)
	}
}

func TestIntraEmptyObjectOverlap(t *testing.T) {
	// an empty object is a leaf; a second unit landing on it, or an
	// empty object landing on another unit's container, is an overlap
	for name, units := range map[string][]Unit{
		"both empty": {
			{ID: "svc", Raw: []byte("cache: {}\n")},
			{ID: "svc/cache", Raw: []byte("{}\n")},
		},
		"content over empty leaf": {
			{ID: "svc", Raw: []byte("cache: {}\n")},
			{ID: "svc/cache", Raw: []byte("ttl: 60\n")},
		},
		"empty leaf over content": {
			{ID: "svc/cache", Raw: []byte("ttl: 60\n")},
			{ID: "svc", Raw: []byte("cache: {}\n")},
		},
	} {
		_, _, err := BuildLayer(LayerDefinition{Name: "l", Index: 0}, units)
		var overlap *OverlapError
		if !errors.As(err, &overlap) {
			t.Errorf("%s: expected OverlapError, got %v", name, err)
			continue
		}
		if overlap.Path != "/svc/cache" {
			t.Errorf("%s: overlap path %q", name, overlap.Path)
		}
		if overlap.UnitA == overlap.UnitB {
			t.Errorf("%s: overlap does not name both units: %q %q",
				name, overlap.UnitA, overlap.UnitB)
		}
	}
}

func TestIntraUnitPrefix(t *testing.T) {
	for id, want := range map[string]string{
		"index":            "/",
		"index.yaml":       "/",
		"net":              "/net",
		"net/dns.yaml":     "/net/dns",
		"net/index.json":   "/net",
		"/deep/a/b/c.yml":  "/deep/a/b/c",
		"named-index.yaml": "/named-index",
	} {
		if got := dom.JoinPath(UnitPrefix(id)); got != want {
			t.Errorf("prefix of %q: got %q, want %q", id, got, want)
		}
	}
}

func TestIntraDisjointUnits(t *testing.T) {
	layer, diags, err := BuildLayer(
		LayerDefinition{Name: "l", Index: 0},
		[]Unit{
			{ID: "net/dns", Raw: []byte("primary: 1.1.1.1\n")},
			{ID: "net/proxy", Raw: []byte("port: 3128\n")},
			{ID: "index", Raw: []byte("name: staging\n")},
		},
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	for path, unit := range map[string]string{
		"/net/dns/primary": "net/dns",
		"/net/proxy/port":  "net/proxy",
		"/name":            "index",
	} {
		n := dom.Lookup(layer.Root, path)
		if n == nil {
			t.Errorf("missing %q", path)
			continue
		}
		if got := layer.Units[path]; got != unit {
			t.Errorf("unit of %q: got %q, want %q", path, got, unit)
		}
	}
}

func TestIntraBadUnitIsolated(t *testing.T) {
	layer, diags, err := BuildLayer(
		LayerDefinition{Name: "l", Index: 0},
		[]Unit{
			{ID: "ok", Raw: []byte("a: 1\n")},
			{ID: "bad", Raw: []byte("a: [1, 2\n")},
		},
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("want one load diagnostic, got %v", diags)
	}
	if dom.Lookup(layer.Root, "/ok/a") == nil {
		t.Errorf("good unit lost because of bad sibling")
	}
}

func TestIntraPatchUnit(t *testing.T) {
	layer, diags, err := BuildLayer(
		LayerDefinition{Name: "l", Index: 0},
		[]Unit{
			{ID: "index", Raw: []byte("replicas: 1\nimage: app:v1\n")},
			{
				ID:   "bump.patch",
				Kind: UnitPatch,
				Raw:  []byte(`[{"op": "replace", "path": "/replicas", "value": 3}]`),
			},
		},
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if got := *dom.Lookup(layer.Root, "/replicas").Value.Int64; got != 3 {
		t.Errorf("patch not applied: replicas=%d", got)
	}
	if got := dom.Lookup(layer.Root, "/image").Value.Str; got != "app:v1" {
		t.Errorf("patch clobbered sibling: %q", got)
	}
}

func TestIntraBadPatchIsolated(t *testing.T) {
	layer, diags, err := BuildLayer(
		LayerDefinition{Name: "l", Index: 0},
		[]Unit{
			{ID: "index", Raw: []byte("a: 1\n")},
			{
				ID:   "bad.patch",
				Kind: UnitPatch,
				Raw:  []byte(`[{"op": "replace", "path": "/missing", "value": 1}]`),
			},
		},
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("want one load diagnostic, got %v", diags)
	}
	if got := *dom.Lookup(layer.Root, "/a").Value.Int64; got != 1 {
		t.Errorf("failed patch damaged tree")
	}
}
