package simcb

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

type (
	// Builder compiles synthesized callback sources into shared artifacts
	// linked against the installed engine.
	//
	// Builds are synchronous and every call owns its identity, so a single
	// Builder may be shared between goroutines.
	Builder struct {
		Install *Install
		Workdir string // directory for generated files, default os.TempDir()
		Debug   bool
	}
)

// Compile writes src under the identity prefix and produces the shared
// artifact beside it. On any compiler failure the identity's files are
// cleaned before the error propagates, no partial artifacts survive a failed
// build. On success cleanup is the caller's duty, the artifact is still
// needed for loading.
func (b *Builder) Compile(id, src string) (artifact string, err error) {
	dir := b.dir()
	cf := filepath.Join(dir, id+".c")
	artifact = filepath.Join(dir, id+sharedExt())
	if err = os.WriteFile(cf, []byte(src), 0o644); err != nil {
		Cleanup(dir, id)
		return "", err
	}
	args := []string{"-shared", "-fPIC", "-O2", "-I", b.Install.Include, "-o", artifact, cf}
	if b.Install.Lib != "" {
		args = append(args, "-L"+b.Install.Lib, "-Wl,-rpath,"+b.Install.Lib)
	}
	if b.Install.LibName != "" {
		// link against the engine so callbacks can call into it
		args = append(args, "-l"+b.Install.LibName)
	}
	cmd := exec.Command(compiler(), args...)
	if b.Debug {
		log.Printf("execute: %v", cmd.Args)
	}
	out, err := cmd.CombinedOutput()
	if b.Debug && len(out) > 0 {
		log.Printf("compiler output:\n%s", out)
	}
	if err != nil {
		Cleanup(dir, id)
		return "", &BuildError{Stage: "compile callback", Output: string(out), Err: err}
	}
	return artifact, nil
}

// BuildCallback compiles body into a step callback linked against the engine
// and returns the raw address of the compiled function.
//
// The address stays valid for the rest of the process: the loader keeps the
// mapped code resident even after the backing files are removed, which
// happens before this returns on success and failure both. Callbacks are
// plain native code, multiple stepping threads may invoke the same address
// without coordination, and addresses may be reused by many consumers to
// save compile time.
func (b *Builder) BuildCallback(body string, aliases ...string) (p Sym, err error) {
	src, err := Synthesize(body, aliases...)
	if err != nil {
		return 0, err
	}
	id := NewIdentity()
	defer Cleanup(b.dir(), id)
	artifact, err := b.Compile(id, src)
	if err != nil {
		return 0, err
	}
	fixed, err := relinkLibraries(b.Install, artifact)
	if err != nil {
		return 0, err
	}
	if fixed != "" {
		// overwrite with the corrected library, the path contract holds
		if err = os.Rename(fixed, artifact); err != nil {
			return 0, err
		}
	}
	m, err := Load(id, artifact)
	if err != nil {
		return 0, err
	}
	fp, ok := m.Fetch("__fun")
	if !ok {
		return 0, ErrMissingSymbol
	}
	return fp.Word(), nil
}

func (b *Builder) dir() string {
	if b.Workdir != "" {
		return b.Workdir
	}
	return os.TempDir()
}

func compiler() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "cc"
}

func sharedExt() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}
