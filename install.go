package simcb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZenLiuCN/fn"
	"gopkg.in/yaml.v3"
)

type (
	// Install locates the engine installation builds link against.
	Install struct {
		Include string `yaml:"include"` // public header directory
		Lib     string `yaml:"lib"`     // shared library directory
		LibName string `yaml:"libname"` // library name handed to the linker, e.g. sim210
		Key     string `yaml:"key"`     // activation key file path
	}
)

// LoadInstall reads an install description from a YAML file.
func LoadInstall(path string) (in *Install, err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	in = new(Install)
	if err = yaml.NewDecoder(f).Decode(in); err != nil {
		return nil, err
	}
	return
}

// DiscoverInstall resolves the installation from the SIMCB_PATH root, laid
// out the way the engine distribution unpacks: include/ and bin/ under the
// root with the key file beside them. SIMCB_KEY overrides the key path.
func DiscoverInstall() (in *Install, err error) {
	root := os.Getenv("SIMCB_PATH")
	if root == "" {
		return nil, fmt.Errorf("SIMCB_PATH not set")
	}
	if _, err = os.Stat(root); err != nil {
		return nil, fmt.Errorf("engine installation not found at %s: %w", root, err)
	}
	in = &Install{
		Include: filepath.Join(root, "include"),
		Lib:     filepath.Join(root, "bin"),
		LibName: "sim210",
		Key:     filepath.Join(root, "simkey.txt"),
	}
	if k := os.Getenv("SIMCB_KEY"); k != "" {
		in.Key = k
	}
	return
}

const missingKeyMessage = `
You appear to be missing an activation key for the simulation engine.
A key was expected at:

    %s

Place your key file there or point SIMCB_KEY at it. Builds proceed without
it, but the engine will refuse to step until activated.

`

// CheckKey looks for the activation key file and prints a diagnostic on
// stderr when it is missing. The build itself proceeds, activation fails
// later with a clearer context.
func (in *Install) CheckKey() {
	if in.Key == "" {
		return
	}
	if _, err := os.Stat(in.Key); err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, missingKeyMessage, in.Key)
}
