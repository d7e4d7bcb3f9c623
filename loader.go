//go:build linux || darwin

package simcb

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

static void* cb_dlopen(const char* path) {
	return dlopen(path, RTLD_NOW | RTLD_GLOBAL);
}
static const char* cb_dlerror(void) {
	return dlerror();
}
// Clear dlerror, look the symbol up, and hand any error back beside it.
static void* cb_dlsym(void* h, const char* name, char** err) {
	dlerror();
	void* p = dlsym(h, name);
	char* e = dlerror();
	if (e) { if (err) *err = e; return NULL; }
	if (err) *err = NULL;
	return p;
}
typedef void (*cb_step)(const void*, void*);
static void cb_invoke(void* f, const void* m, void* d) {
	((cb_step)f)(m, d);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

type (
	// Sym is a raw address inside a loaded module.
	Sym uintptr

	// Module is a shared artifact mapped into the process.
	//
	// The mapping lives until process exit, there is no unload: symbols
	// fetched from it stay valid even after the backing file is deleted.
	Module struct {
		name    string
		path    string
		handle  unsafe.Pointer
		exports []string
	}
)

// Load maps the shared artifact at path into the process under name.
// name only labels diagnostics, per-build unique identities guarantee two
// loads never collide.
func Load(name, path string) (m *Module, err error) {
	cp := C.CString(path)
	defer C.free(unsafe.Pointer(cp))
	h := C.cb_dlopen(cp)
	if h == nil {
		return nil, fmt.Errorf("load %s from %s: %s", name, path, C.GoString(C.cb_dlerror()))
	}
	m = &Module{name: name, path: path, handle: h}
	// best effort, Fetch still resolves names absent from the table dump
	m.exports, _ = exportedNames(path)
	return
}

func (m *Module) Name() string { return m.name }

// Exports lists the exported names read from the artifact's symbol table.
func (m *Module) Exports() []string { return m.exports }

// Fetch resolves an exported symbol to its raw address.
func (m *Module) Fetch(sym string) (u Sym, ok bool) {
	if m == nil || m.handle == nil {
		return 0, false
	}
	cs := C.CString(sym)
	defer C.free(unsafe.Pointer(cs))
	var ce *C.char
	p := C.cb_dlsym(m.handle, cs, &ce)
	if p == nil {
		return 0, false
	}
	return Sym(uintptr(p)), true
}

// MustFetch resolves an exported symbol, panics with ErrNotLoaded or
// ErrMissingSymbol.
func (m *Module) MustFetch(sym string) (u Sym) {
	if m == nil || m.handle == nil {
		panic(ErrNotLoaded)
	}
	u, ok := m.Fetch(sym)
	if !ok {
		panic(ErrMissingSymbol)
	}
	return
}

// Word reads the pointer-width value stored at the symbol address. The
// synthesized __fun symbol holds the callback's entry address as its value.
func (s Sym) Word() Sym {
	return Sym(*(*uintptr)(unsafe.Pointer(uintptr(s))))
}

// Invoke calls a compiled step callback with the engine's fixed signature
//
//	void fun(const simModel* m, simData* d);
//
// model and data must point at the engine's structures, anything else is
// undefined behavior at the ABI boundary.
func Invoke(fn Sym, model, data unsafe.Pointer) {
	C.cb_invoke(unsafe.Pointer(uintptr(fn)), model, data)
}
