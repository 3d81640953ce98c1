package document

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// WriteError reports an output file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Output is one document destined for one path.
type Output struct {
	Path     string
	Document *Document
	Writer   Writer
}

// Save writes a single document atomically.
func Save(path string, doc *Document, w Writer) error {
	return SaveAll([]Output{{Path: path, Document: doc, Writer: w}})
}

// SaveAll renders every output to a temporary file beside its destination,
// then renames them all into place. If any render fails, every temporary
// file is removed and no destination is touched.
func SaveAll(outputs []Output) error {
	temps := make([]string, 0, len(outputs))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}

	for _, o := range outputs {
		tmp, err := render(o)
		if err != nil {
			cleanup()
			return &WriteError{Path: o.Path, Err: err}
		}
		temps = append(temps, tmp)
	}

	for i, o := range outputs {
		if err := os.Rename(temps[i], o.Path); err != nil {
			temps = temps[i:]
			cleanup()
			return &WriteError{Path: o.Path, Err: err}
		}
		_ = syncDir(filepath.Dir(o.Path))
	}
	return nil
}

func render(o Output) (string, error) {
	dir := filepath.Dir(o.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(o.Path)+".tmp-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err := o.Writer.Write(bw, o.Document); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
