package simcb

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSymbol occurs when an exported symbol can't be found in a loaded module.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrNotLoaded occurs when fetching symbols from a module that was never loaded.
	ErrNotLoaded = errors.New("module not loaded")
	// ErrExhausted occurs when the extension module build ran out of attempts.
	ErrExhausted = errors.New("module build attempts exhausted")
)

// BuildError is a failed compiler or linker invocation with its captured output.
type BuildError struct {
	Stage  string
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %s", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s\nout:%s", e.Stage, e.Err, e.Output)
}

func (e *BuildError) Unwrap() error { return e.Err }

// SimulationError is a diagnostic warning the engine emitted while stepping,
// carrying a remediation hint when the warning is a known one.
type SimulationError struct {
	Warning string
	Hint    string
}

func (e *SimulationError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("got simulation warning: %s", e.Warning)
	}
	return e.Warning + " " + e.Hint
}
