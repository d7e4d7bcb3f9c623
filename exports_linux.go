//go:build linux

package simcb

import "debug/elf"

// exportedNames dumps the defined names of a shared artifact's dynamic
// symbol table.
func exportedNames(path string) (names []string, err error) {
	f, err := elf.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	syms, err := f.DynamicSymbols()
	if err != nil {
		return
	}
	for _, s := range syms {
		if s.Section == elf.SHN_UNDEF || s.Name == "" {
			continue
		}
		names = append(names, s.Name)
	}
	return
}
