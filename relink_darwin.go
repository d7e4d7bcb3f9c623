//go:build darwin

package simcb

import (
	"os/exec"
	"path/filepath"
)

// relinkLibraries rewrites the engine library reference inside artifact. The
// default darwin linker records it in a form dlopen can't resolve, so the
// corrected copy is written to a new path which the caller must move over
// the original to keep the path contract. Any rewrite failure is fatal to
// the build.
func relinkLibraries(in *Install, artifact string) (fixed string, err error) {
	fixed = artifact + ".fixed"
	if err = CopyFile(artifact, fixed, nil); err != nil {
		return "", err
	}
	lib := "lib" + in.LibName + ".dylib"
	for _, args := range [][]string{
		{"-change", "@rpath/" + lib, filepath.Join(in.Lib, lib), fixed},
		{"-add_rpath", in.Lib, fixed},
	} {
		out, e := exec.Command("install_name_tool", args...).CombinedOutput()
		if e != nil {
			return "", &BuildError{Stage: "relink", Output: string(out), Err: e}
		}
	}
	return fixed, nil
}
