package calculation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/spf13/afero"
)

// Input file names in a calculation directory.
const (
	INCAR   = "INCAR"
	KPOINTS = "KPOINTS"
	POSCAR  = "POSCAR"
)

// InputFile is a text input file of a calculation.
type InputFile struct {
	fs   afero.Fs
	path string
}

func newInputFile(fs afero.Fs, dir, name string) *InputFile {
	return &InputFile{fs: fs, path: filepath.Join(dir, name)}
}

// Path returns the location of the file.
func (f *InputFile) Path() string {
	return f.path
}

// Name returns the file name, e.g. INCAR.
func (f *InputFile) Name() string {
	return filepath.Base(f.path)
}

// Read returns the content of the file.
func (f *InputFile) Read() (string, error) {
	content, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %v", errors.ErrNotFound, err)
		}
		return "", &errors.FileError{Op: "read", Path: f.path, Err: err}
	}
	return string(content), nil
}

// Write replaces the content of the file. A trailing newline is added if missing.
func (f *InputFile) Write(content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := afero.WriteFile(f.fs, f.path, []byte(content), 0o644); err != nil {
		return &errors.FileError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

// Exists reports whether the file is present.
func (f *InputFile) Exists() bool {
	ok, err := afero.Exists(f.fs, f.path)
	return ok && err == nil
}

// Fprint writes the content of the file to w.
func (f *InputFile) Fprint(w io.Writer) error {
	content, err := f.Read()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

// Print writes the content of the file to standard output.
func (f *InputFile) Print() error {
	return f.Fprint(os.Stdout)
}
