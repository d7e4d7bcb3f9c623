/*
Package simcb compiles small native step callbacks at runtime and links the
simulation engine's long-lived extension module into the process.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. Callback sources are synthesized, compiled with the system C toolchain
    against the installed engine, mapped with the platform loader and then
    deleted. The mapped code stays resident, so the returned address is valid
    until process exit.
 2. Built callbacks are plain native code, multiple stepping threads may call
    the same address without coordination.
 3. Engine warnings are fed through a process-wide translator slot that turns
    them into typed errors, with a scope to suppress translation during bulk
    rollouts.

# Notes

 1. Generated files are removed on success and on failure both. Set
    SIMCB_DEBUG_FN_BUILDER to keep them for post-mortem inspection.
 2. Each build owns a unique identity, concurrent builds never share files.
 3. The engine refuses to step without an activation key, a missing key is
    reported on stderr but never stops a build.

# Build tool

The cbuild cli compiles callback sources, cleans build leftovers and drives
the extension module build. It can be installed by:

	go install github.com/ZenLiuCN/simcb/cbuild@latest

For more details see the cli help:

	cbuild -h

# Samples

See tests.
*/
package simcb
