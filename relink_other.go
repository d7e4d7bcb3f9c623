//go:build !darwin

package simcb

// Only darwin records an engine library reference the loader can't resolve,
// everywhere else the produced artifact is already correct.
func relinkLibraries(*Install, string) (string, error) {
	return "", nil
}
