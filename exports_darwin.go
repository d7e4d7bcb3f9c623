//go:build darwin

package simcb

import (
	"debug/macho"
	"strings"
)

// exportedNames dumps the defined names of a shared artifact's symbol table.
// Mach-O prefixes C symbols with an underscore which dlsym does not take,
// names are reported without it.
func exportedNames(path string) (names []string, err error) {
	f, err := macho.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	if f.Symtab == nil {
		return
	}
	for _, s := range f.Symtab.Syms {
		if s.Sect == 0 || s.Name == "" {
			continue
		}
		names = append(names, strings.TrimPrefix(s.Name, "_"))
	}
	return
}
