package simcb

import (
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/davecgh/go-spew/spew"
)

const extSource = `
#include <stdint.h>
int sim_version(void) { return 210; }
int sim_reset(void) { return 1; }
static void step(const void* m, void* d) { (void)m; (void)d; }
uintptr_t __fun = (uintptr_t) step;
`

func buildTestModule(t *testing.T) *Module {
	t.Helper()
	if _, err := exec.LookPath(compiler()); err != nil {
		t.Skip("no c compiler available")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "ext.c")
	fn.Panic(os.WriteFile(src, []byte(extSource), 0o644))
	artifact := filepath.Join(dir, "ext"+sharedExt())
	out, err := exec.Command(compiler(), "-shared", "-fPIC", "-o", artifact, src).CombinedOutput()
	if err != nil {
		t.Fatalf("cc: %v\n%s", err, out)
	}
	return fn.Panic1(Load("ext", artifact))
}

func TestLoadFetch(t *testing.T) {
	m := buildTestModule(t)
	s, ok := m.Fetch("sim_version")
	if !ok || s == 0 {
		t.Fatal("missing sim_version")
	}
	if _, ok = m.Fetch("sim_nope"); ok {
		t.Fatal("resolved a symbol that does not exist")
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := exec.LookPath(compiler()); err != nil {
		t.Skip("no c compiler available")
	}
	p := filepath.Join(t.TempDir(), "junk"+sharedExt())
	fn.Panic(os.WriteFile(p, []byte("not a library"), 0o644))
	if _, err := Load("junk", p); err == nil {
		t.Fatal("expected load failure")
	}
}

func TestMustFetchPanics(t *testing.T) {
	m := buildTestModule(t)
	defer func() {
		if r := recover(); r != ErrMissingSymbol {
			t.Fatalf("expected ErrMissingSymbol, got %v", r)
		}
	}()
	m.MustFetch("sim_nope")
}

func TestWordInvoke(t *testing.T) {
	m := buildTestModule(t)
	fp := m.MustFetch("__fun").Word()
	if fp == 0 {
		t.Fatal("zero entry address")
	}
	Invoke(fp, nil, nil)
}

func TestExports(t *testing.T) {
	m := buildTestModule(t)
	names := m.Exports()
	t.Log(spew.Sdump(names))
	for _, want := range []string{"sim_version", "sim_reset", "__fun"} {
		if slices.Index(names, want) < 0 {
			t.Errorf("'%s' not in exports", want)
		}
	}
}

func TestRegistry(t *testing.T) {
	m := buildTestModule(t)
	r := NewRegistry(m, "sim_")
	if _, ok := r.Fetch("version"); !ok {
		t.Fatalf("missing short name, have %v", r.Names())
	}
	if _, ok := r.Fetch("reset"); !ok {
		t.Fatalf("missing short name, have %v", r.Names())
	}
	if _, ok := r.Fetch("sim_version"); ok {
		t.Fatal("long name leaked into registry")
	}
	if _, ok := r.Fetch("__fun"); ok {
		t.Fatal("unprefixed name leaked into registry")
	}
	if len(r.Names()) != 2 {
		t.Fatalf("unexpected registry size: %v", r.Names())
	}
}
