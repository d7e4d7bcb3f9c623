package simcb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZenLiuCN/fn"
)

func fakeLoad(name, path string) (*Module, error) {
	return &Module{name: name, path: path}, nil
}

// failing build step that succeeds on attempt n, leaving an artifact behind.
func flakyStep(t *testing.T, n int) (argv []string, marker string) {
	t.Helper()
	dir := t.TempDir()
	marker = filepath.Join(dir, "attempts")
	sh := filepath.Join(dir, "step.sh")
	script := fmt.Sprintf(`#!/bin/sh
n=$(cat %s 2>/dev/null || echo 0)
n=$((n+1))
printf '%%s' $n > %s
if [ $n -lt %d ]; then exit 1; fi
touch ext.so
`, marker, marker, n)
	fn.Panic(os.WriteFile(sh, []byte(script), 0o755))
	return []string{"/bin/sh", sh}, marker
}

func TestModuleBuildRetries(t *testing.T) {
	argv, marker := flakyStep(t, 3)
	cleans := 0
	mb := &ModuleBuild{
		Command:  argv,
		Workdir:  t.TempDir(),
		Pattern:  "*.so",
		Attempts: 3,
		load:     fakeLoad,
		clean:    func() error { cleans++; return nil },
	}
	m := fn.Panic1(mb.Run())
	if mb.State() != Succeeded {
		t.Fatalf("expected Succeeded, got %s", mb.State())
	}
	if m.Name() != "simext" {
		t.Fatalf("unexpected module name %s", m.Name())
	}
	if got := string(fn.Panic1(os.ReadFile(marker))); got != "3" {
		t.Fatalf("expected exactly 3 attempts, got %s", got)
	}
	if cleans != 2 {
		t.Fatalf("expected workspace cleaned exactly twice, got %d", cleans)
	}
}

func TestModuleBuildExhausts(t *testing.T) {
	argv, marker := flakyStep(t, 10)
	mb := &ModuleBuild{
		Command:  argv,
		Workdir:  t.TempDir(),
		Pattern:  "*.so",
		Attempts: 3,
		load:     fakeLoad,
		clean:    func() error { return nil },
	}
	_, err := mb.Run()
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if mb.State() != ExhaustedFailed {
		t.Fatalf("expected ExhaustedFailed, got %s", mb.State())
	}
	if got := string(fn.Panic1(os.ReadFile(marker))); got != "3" {
		t.Fatalf("expected exactly 3 attempts, got %s", got)
	}
}

func TestModuleBuildTimeout(t *testing.T) {
	mb := &ModuleBuild{
		Command:  []string{"/bin/sh", "-c", "sleep 5"},
		Workdir:  t.TempDir(),
		Pattern:  "*.so",
		Timeout:  100 * time.Millisecond,
		Attempts: 2,
		load:     fakeLoad,
		clean:    func() error { return nil },
	}
	start := time.Now()
	_, err := mb.Run()
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if mb.State() != ExhaustedFailed {
		t.Fatalf("expected ExhaustedFailed, got %s", mb.State())
	}
	var be *BuildError
	if !errors.As(err, &be) || !errors.Is(be.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline failure, got %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatal("timeout not enforced per attempt")
	}
}

func TestModuleBuildAmbiguousArtifacts(t *testing.T) {
	ws := t.TempDir()
	mb := &ModuleBuild{
		Command:  []string{"/bin/sh", "-c", "touch a.so b.so"},
		Workdir:  ws,
		Pattern:  "*.so",
		Attempts: 1,
		load:     fakeLoad,
		clean:    func() error { return os.RemoveAll(filepath.Join(ws, "a.so")) },
	}
	_, err := mb.Run()
	if err == nil || !strings.Contains(err.Error(), "exactly one artifact") {
		t.Fatalf("expected artifact count failure, got %v", err)
	}
}

func TestModuleBuildNoArtifact(t *testing.T) {
	mb := &ModuleBuild{
		Command:  []string{"/bin/sh", "-c", "true"},
		Workdir:  t.TempDir(),
		Pattern:  "*.so",
		Attempts: 1,
		load:     fakeLoad,
		clean:    func() error { return nil },
	}
	if _, err := mb.Run(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}
