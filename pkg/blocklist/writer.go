package blocklist

import (
	"bufio"
	"errors"
	"os"

	"github.com/spf13/afero"
)

const outputFileMode = 0o644

// Writer persists rendered lines. An existing target is truncated in place, so its owner, mode
// and any symlink pointing at it are kept.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer on fs. A nil fs selects the OS filesystem.
func NewWriter(fs afero.Fs) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{fs: fs}
}

// Write creates or truncates path and writes one line per entry.
func (w *Writer) Write(path string, lines []string) error {
	if path == "" {
		return &WriteError{Path: path, Err: errors.New("empty output path")}
	}

	file, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFileMode)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := writeLines(file, lines); err != nil {
		_ = file.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeLines(file afero.File, lines []string) error {
	buf := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := buf.WriteString(line); err != nil {
			return err
		}
		if err := buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	return buf.Flush()
}
