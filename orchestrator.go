package simcb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

type (
	// BuildState is where a ModuleBuild run ended up.
	BuildState int

	// ModuleBuild drives the one-off build of the engine's primary
	// extension module with bounded retries.
	//
	// Each attempt runs the external build step under a time budget, then
	// expects exactly one artifact matching Pattern under Workdir and loads
	// it. A failed attempt (process error, timeout, zero or ambiguous
	// artifacts, load error) destructively cleans the workspace and tries
	// again: transient build-environment flakiness is worth retrying, a
	// request that never builds hits the cap. Not designed for concurrent
	// invocation against the same workspace.
	ModuleBuild struct {
		Command  []string      // build step argv
		Workdir  string        // workspace the build step populates
		Pattern  string        // artifact glob relative to Workdir
		Timeout  time.Duration // per attempt budget, unbounded when zero
		Attempts int           // attempt cap, default 3
		Debug    bool

		// seams for tests, default to Load and workspace removal
		load  func(name, path string) (*Module, error)
		clean func() error

		state BuildState
	}
)

const (
	Attempting BuildState = iota
	Succeeded
	ExhaustedFailed
)

func (s BuildState) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case Succeeded:
		return "succeeded"
	case ExhaustedFailed:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const defaultAttempts = 3

// moduleName labels the long-lived extension module in diagnostics.
const moduleName = "simext"

// Run executes the build step until it yields exactly one loadable artifact
// or the attempt cap is reached, which ends in ErrExhausted wrapping the
// last failure.
func (b *ModuleBuild) Run() (m *Module, err error) {
	if len(b.Command) == 0 {
		return nil, fmt.Errorf("missing build step command")
	}
	b.state = Attempting
	limit := b.Attempts
	if limit <= 0 {
		limit = defaultAttempts
	}
	load := b.load
	if load == nil {
		load = Load
	}
	clean := b.clean
	if clean == nil {
		clean = b.removeWorkspace
	}
	for attempt := 1; attempt <= limit; attempt++ {
		if m, err = b.attempt(load); err == nil {
			b.state = Succeeded
			return m, nil
		}
		if b.Debug {
			log.Printf("module build attempt %d/%d failed: %s", attempt, limit, err)
		}
		if cerr := clean(); cerr != nil {
			log.Printf("error cleaning workspace, continuing anyway: %s", cerr)
		}
	}
	b.state = ExhaustedFailed
	return nil, fmt.Errorf("%w: %d attempts, last: %w", ErrExhausted, limit, err)
}

// State reports where the last Run ended up.
func (b *ModuleBuild) State() BuildState {
	return b.state
}

func (b *ModuleBuild) attempt(load func(name, path string) (*Module, error)) (*Module, error) {
	ctx := context.Background()
	cancel := func() {}
	if b.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
	}
	defer cancel()
	cmd := exec.CommandContext(ctx, b.Command[0], b.Command[1:]...)
	cmd.Dir = b.Workdir
	if b.Debug {
		log.Printf("execute: %v", cmd.Args)
	}
	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &BuildError{Stage: "module build", Output: string(out), Err: ctx.Err()}
	}
	if err != nil {
		return nil, &BuildError{Stage: "module build", Output: string(out), Err: err}
	}
	matches, err := filepath.Glob(filepath.Join(b.Workdir, b.Pattern))
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("expecting exactly one artifact for %s, got %d", b.Pattern, len(matches))
	}
	return load(moduleName, matches[0])
}

func (b *ModuleBuild) removeWorkspace() error {
	if err := os.RemoveAll(b.Workdir); err != nil {
		return err
	}
	return os.MkdirAll(b.Workdir, 0o755)
}
