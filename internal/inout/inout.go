// Package inout resolves the input and output selectors of a render.
//
// The selector "-" (or an empty selector) means the process' standard
// stream. File output is staged in a temporary file next to the destination
// and only renamed into place on Commit, so an aborted render never leaves a
// truncated program behind.
package inout

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/conneroisu/codex/internal/errors"
)

// Stdio is the selector for standard input or output.
const Stdio = "-"

// IsStdio reports whether selector names a standard stream.
func IsStdio(selector string) bool {
	return selector == "" || selector == Stdio
}

// ReadInput reads the whole payload from stdin or from the named file.
func ReadInput(fs afero.Fs, stdin io.Reader, selector string) ([]byte, error) {
	if IsStdio(selector) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.WrapIO(err, "INPUT_READ", "unable to read payload from stdin")
		}
		return data, nil
	}

	data, err := afero.ReadFile(fs, selector)
	if err != nil {
		return nil, errors.WrapIO(err, "INPUT_READ", "unable to read payload").WithPath(selector)
	}
	return data, nil
}

// Output is a render destination that must be committed or aborted.
type Output struct {
	fs     afero.Fs
	w      io.Writer
	tmp    afero.File
	path   string
	closed bool
}

// OpenOutput opens stdout or stages a temporary file for path.
func OpenOutput(fs afero.Fs, stdout io.Writer, selector string) (*Output, error) {
	if IsStdio(selector) {
		return &Output{w: stdout}, nil
	}

	dir, base := filepath.Split(selector)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(fs, dir, "."+base+".tmp.*")
	if err != nil {
		return nil, errors.WrapIO(err, "OUTPUT_OPEN", "unable to create output").WithPath(selector)
	}
	return &Output{fs: fs, w: tmp, tmp: tmp, path: selector}, nil
}

// Path returns the destination path, or "-" for stdout.
func (o *Output) Path() string {
	if o.tmp == nil {
		return Stdio
	}
	return o.path
}

// Write implements io.Writer.
func (o *Output) Write(p []byte) (int, error) {
	if o.closed {
		return 0, os.ErrClosed
	}
	return o.w.Write(p)
}

// Commit makes the written program visible at its destination.
func (o *Output) Commit() error {
	if o.closed {
		return errors.NewInternalError("OUTPUT_CLOSED", "output already finished", os.ErrClosed)
	}
	o.closed = true
	if o.tmp == nil {
		return nil
	}

	tmpName := o.tmp.Name()
	if err := o.tmp.Sync(); err != nil {
		o.discard()
		return errors.WrapIO(err, "OUTPUT_COMMIT", "unable to flush output").WithPath(o.path)
	}
	if err := o.tmp.Close(); err != nil {
		_ = o.fs.Remove(tmpName)
		return errors.WrapIO(err, "OUTPUT_COMMIT", "unable to close output").WithPath(o.path)
	}
	if err := o.fs.Chmod(tmpName, 0o644); err != nil {
		_ = o.fs.Remove(tmpName)
		return errors.WrapIO(err, "OUTPUT_COMMIT", "unable to set output permissions").WithPath(o.path)
	}
	if err := o.fs.Rename(tmpName, o.path); err != nil {
		_ = o.fs.Remove(tmpName)
		return errors.WrapIO(err, "OUTPUT_COMMIT", "unable to move output into place").WithPath(o.path)
	}
	return nil
}

// Abort discards everything written. It is a no-op after Commit, so it can
// be deferred unconditionally.
func (o *Output) Abort() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if o.tmp == nil {
		return nil
	}
	return o.discard()
}

func (o *Output) discard() error {
	name := o.tmp.Name()
	_ = o.tmp.Close()
	if err := o.fs.Remove(name); err != nil {
		return errors.WrapIO(err, "OUTPUT_ABORT", "unable to remove staged output").WithPath(name)
	}
	return nil
}
