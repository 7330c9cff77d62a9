package query

import (
	"errors"
	"testing"

	"github.com/cascade-format/cascade/codec"
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

func TestGetScalar(t *testing.T) {
	root := parse(t, `
server:
  port: 8080
  host: example.com
  tls: true
`)
	var port int
	if err := Get(root, "/server/port", &port); err != nil {
		t.Fatal(err)
	}
	if port != 8080 {
		t.Errorf("port = %d", port)
	}
	var host string
	if err := Get(root, "/server/host", &host); err != nil {
		t.Fatal(err)
	}
	if host != "example.com" {
		t.Errorf("host = %q", host)
	}
	var tls bool
	if err := Get(root, "/server/tls", &tls); err != nil {
		t.Fatal(err)
	}
	if !tls {
		t.Errorf("tls = false")
	}
}

func TestGetStruct(t *testing.T) {
	root := parse(t, `
server:
  port: 8080
  host: example.com
`)
	var srv struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	}
	if err := Get(root, "/server", &srv); err != nil {
		t.Fatal(err)
	}
	if srv.Port != 8080 || srv.Host != "example.com" {
		t.Errorf("srv = %+v", srv)
	}
}

func TestGetSlice(t *testing.T) {
	root := parse(t, `
endpoints:
  - a
  - b
`)
	var eps []string
	if err := Get(root, "/endpoints", &eps); err != nil {
		t.Fatal(err)
	}
	if len(eps) != 2 || eps[0] != "a" || eps[1] != "b" {
		t.Errorf("eps = %v", eps)
	}
	var first string
	if err := Get(root, "/endpoints/0", &first); err != nil {
		t.Fatal(err)
	}
	if first != "a" {
		t.Errorf("first = %q", first)
	}
}

func TestGetNotFound(t *testing.T) {
	root := parse(t, "a: 1\n")
	var out int
	err := Get(root, "/b", &out)
	if !errors.Is(err, ErrPathNotFound) {
		t.Errorf("err = %v", err)
	}
	if _, err := Node(root, "/b"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Node err = %v", err)
	}
}

func TestGetDecodeMismatch(t *testing.T) {
	root := parse(t, "a: not a number\n")
	var out int
	err := Get(root, "/a", &out)
	if !errors.Is(err, ErrDecodeMismatch) {
		t.Errorf("err = %v", err)
	}
}

func TestGetRoot(t *testing.T) {
	root := parse(t, "a: 1\nb: 2\n")
	var m map[string]int
	if err := Get(root, "/", &m); err != nil {
		t.Fatal(err)
	}
	if m["a"] != 1 || m["b"] != 2 {
		t.Errorf("m = %v", m)
	}
}
