package simcb

import (
	"strings"
	"sync"
)

type (
	// Translator receives the diagnostic text the engine emits on a step
	// warning and decides the failure to surface, nil swallows it.
	Translator func(warning string) error

	warningRule struct {
		match string
		hint  string
	}

	// WarningScope restores the translator that was active when the scope
	// was opened. Close is for every exit path, normal or panicking:
	//
	//	defer simcb.SuppressWarnings().Close()
	WarningScope struct {
		prev Translator
	}
)

// Known engine warnings with a remediation hint, first match wins. More
// cases get added as new failures show up.
var warningRules = []warningRule{
	{"Pre-allocated constraint buffer is full", "Increase njmax in model XML"},
	{"Pre-allocated contact buffer is full", "Increase njconmax in model XML"},
	// the unhelpfully named warning the engine emits when fed NaNs
	{"Unknown warning type", "Check for NaN in simulation."},
}

// RaiseWarning is the default translator: known warnings fail with a
// remediation hint, unknown ones still fail with the text wrapped
// generically. There is no silent pass-through, suppression is what
// WarningScope is for.
func RaiseWarning(warning string) error {
	for _, r := range warningRules {
		if strings.Contains(warning, r.match) {
			return &SimulationError{Warning: warning, Hint: r.hint}
		}
	}
	return &SimulationError{Warning: warning}
}

// IgnoreWarning swallows every warning.
func IgnoreWarning(string) error { return nil }

var (
	translatorMu sync.Mutex
	translator   Translator = RaiseWarning
)

// Warn feeds a diagnostic through the active translator. The engine's
// warning callback lands here on every step warning.
func Warn(warning string) error {
	translatorMu.Lock()
	t := translator
	translatorMu.Unlock()
	if t == nil {
		return nil
	}
	return t(warning)
}

// SetTranslator installs t as the process-wide translator and returns the
// one it replaces.
func SetTranslator(t Translator) (prev Translator) {
	translatorMu.Lock()
	prev = translator
	translator = t
	translatorMu.Unlock()
	return
}

// CurrentTranslator returns the active translator.
func CurrentTranslator() Translator {
	translatorMu.Lock()
	defer translatorMu.Unlock()
	return translator
}

// SuppressWarnings opens a scope with warning translation disabled, useful
// for large vectorized rollouts. Scopes opened from several goroutines
// restore in whatever order they close, interleaving them is the caller's
// problem.
func SuppressWarnings() *WarningScope {
	return &WarningScope{prev: SetTranslator(IgnoreWarning)}
}

// Close reinstates the translator recorded at scope entry.
func (s *WarningScope) Close() {
	SetTranslator(s.prev)
}

// Suppressed runs f with warnings suppressed, restoring the previous
// translator even when f fails or panics.
func Suppressed(f func() error) error {
	defer SuppressWarnings().Close()
	return f()
}
