// Package shell moves the caller into another directory.
//
// A child process cannot change its parent shell's directory, so wtree
// changes its own directory and then hands the target to a thin shell
// wrapper (see [Script]). The wrapper points WTREE_CD_FILE at a temp file;
// without a wrapper the target is printed to stdout instead.
package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CDFileEnv names the file the shell wrapper reads the target from.
const CDFileEnv = "WTREE_CD_FILE"

// Relocator changes the process directory and remembers the last target.
type Relocator struct {
	cdFile string
	out    io.Writer
	target string
}

// NewRelocator returns a Relocator reporting through $WTREE_CD_FILE, or out
// when the variable is unset.
func NewRelocator(out io.Writer) *Relocator {
	return &Relocator{cdFile: os.Getenv(CDFileEnv), out: out}
}

// Getwd returns the symlink-resolved working directory.
func (r *Relocator) Getwd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(wd); err == nil {
		wd = resolved
	}
	return wd, nil
}

// Relocate changes the working directory to path.
func (r *Relocator) Relocate(path string) error {
	if err := os.Chdir(path); err != nil {
		return fmt.Errorf("change directory: %w", err)
	}
	r.target = path
	return nil
}

// Target returns the last successful relocation target, or "".
func (r *Relocator) Target() string {
	return r.target
}

// Flush hands the target to the caller. Does nothing without a target.
func (r *Relocator) Flush() error {
	if r.target == "" {
		return nil
	}
	if r.cdFile != "" {
		return os.WriteFile(r.cdFile, []byte(r.target+"\n"), 0o600)
	}
	_, err := fmt.Fprintln(r.out, r.target)
	return err
}
