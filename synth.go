package simcb

import (
	"fmt"
	"strings"
)

// Synthesize renders a complete C translation unit from a callback body and
// optional userdata alias names.
//
// The body must define a function matching the engine's step signature:
//
//	void fun(const simModel* m, simData* d);
//
// Each alias at index i becomes a #define over the i-th per-step userdata
// slot, so a callback can address named slots directly:
//
//	#define my_sum d->userdata[0]
//
// Note these are plain C #defines and are limited in how they can be used.
// The body is appended verbatim, malformed C surfaces as a compiler error
// downstream, not here. A trailing directive exports the address of fun into
// the integer symbol __fun for extraction after loading.
func Synthesize(body string, aliases ...string) (src string, err error) {
	seen := make(map[string]struct{}, len(aliases))
	b := strings.Builder{}
	b.WriteString("#include <stdint.h>\n")
	b.WriteString("#include <sim.h>\n")
	for i, a := range aliases {
		if !identifier(a) {
			return "", fmt.Errorf("invalid userdata alias %q", a)
		}
		if _, ok := seen[a]; ok {
			return "", fmt.Errorf("duplicated userdata alias %q", a)
		}
		seen[a] = struct{}{}
		b.WriteString(fmt.Sprintf("#define %s d->userdata[%d]\n", a, i))
	}
	b.WriteString(body)
	b.WriteString("\nuintptr_t __fun = (uintptr_t) fun;\n")
	return b.String(), nil
}

func identifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
