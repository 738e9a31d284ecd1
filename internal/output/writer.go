package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var ErrDeclarationMismatch = errors.New("XML declaration mismatch")

// Writer stores generated documents and checks that the file starts with
// the expected XML declaration.
type Writer struct {
	declaration string
}

func NewWriter(declaration string) *Writer {
	return &Writer{declaration: declaration}
}

// Run writes doc to path through a temporary file in the same directory.
// A declaration mismatch after writing is logged, not returned.
func (w *Writer) Run(path string, doc string) error {
	if err := writeAtomic(path, []byte(doc)); err != nil {
		return err
	}

	if err := w.VerifyDeclaration(path); err != nil {
		slog.Warn("Output declaration check failed", "path", path, "error", err)
	}

	return nil
}

func (w *Writer) VerifyDeclaration(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to reopen output: %w", err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read declaration: %w", err)
	}

	line = strings.TrimRight(line, "\r\n")
	if line != w.declaration {
		return fmt.Errorf("%w: got %q, expected %q", ErrDeclarationMismatch, line, w.declaration)
	}

	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace output: %w", err)
	}

	return nil
}
