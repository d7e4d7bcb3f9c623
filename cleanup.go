package simcb

import (
	"log"
	"os"
	"path/filepath"
)

// DebugEnv disables artifact cleanup while set, keeping generated sources and
// libraries on disk for post-mortem inspection.
const DebugEnv = "SIMCB_DEBUG_FN_BUILDER"

// Cleanup removes every file under dir whose name begins with prefix.
// Failures removing single files are logged and skipped, partial cleanup is
// acceptable where failing the build is not. No-op while DebugEnv is set.
func Cleanup(dir, prefix string) {
	if os.Getenv(DebugEnv) != "" {
		return
	}
	m, err := filepath.Glob(filepath.Join(dir, prefix+"*"))
	if err != nil {
		return
	}
	for _, f := range m {
		if err = os.Remove(f); err != nil {
			// happens removing libraries still mapped on some CI hosts
			log.Printf("error removing %s, continuing anyway: %s", f, err)
		}
	}
}
