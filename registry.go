package simcb

import (
	"strings"

	"github.com/ZenLiuCN/fn"
)

type (
	// Registry republishes a module's prefixed entry points under short
	// names.
	//
	// The table is built once from the loaded module's export list: every
	// name carrying the prefix is resolved and stored without it, a flat
	// namespace with the last write winning on collision.
	Registry struct {
		module *Module
		table  map[string]Sym
	}
)

// NewRegistry builds the short-name table over every export of m whose name
// begins with prefix.
func NewRegistry(m *Module, prefix string) (r *Registry) {
	r = &Registry{module: m, table: make(map[string]Sym)}
	for _, name := range m.Exports() {
		if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			continue
		}
		if p, ok := m.Fetch(name); ok {
			r.table[name[len(prefix):]] = p
		}
	}
	return
}

// Fetch resolves a short name to the raw entry address.
func (r *Registry) Fetch(name string) (u Sym, ok bool) {
	u, ok = r.table[name]
	return
}

// Names dumps the registered short names.
func (r *Registry) Names() []string {
	return fn.MapKeys(r.table)
}
