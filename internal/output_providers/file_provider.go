package outputproviders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/praetorian-inc/conch/pkg/cmdline"
)

// OutputWriter is a sink for command output.
type OutputWriter interface {
	io.Writer
	Flush() error
	Close() error
}

// FileProvider opens the file sink of a single redirection.
type FileProvider struct {
	Path     string
	Append   bool
	Encoding encoding.Encoding
}

// NewFileProvider resolves the redirection operand against workingDir.
func NewFileProvider(r cmdline.OutputRedirection, workingDir string, enc encoding.Encoding) (*FileProvider, error) {
	path, err := ResolvePath(r.Operand, workingDir)
	if err != nil {
		return nil, err
	}
	return &FileProvider{
		Path:     path,
		Append:   r.Operator == cmdline.Append,
		Encoding: enc,
	}, nil
}

// Open creates missing parent directories and opens the target.
func (fp *FileProvider) Open() (*FileWriter, error) {
	if err := ensureDir(fp.Path); err != nil {
		return nil, err
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if fp.Append {
		flags = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	}
	file, err := os.OpenFile(fp.Path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrRedirect, fp.Path, err)
	}

	fw := &FileWriter{path: fp.Path, file: file, buf: bufio.NewWriter(file)}
	fw.w = fw.buf
	if fp.Encoding != nil {
		fw.encoder = transform.NewWriter(fw.buf, fp.Encoding.NewEncoder())
		fw.w = fw.encoder
	}
	slog.Debug("Redirection target opened", "path", fp.Path, "append", fp.Append)
	return fw, nil
}

// FileWriter writes encoded text to a buffered file.
type FileWriter struct {
	path    string
	file    *os.File
	buf     *bufio.Writer
	encoder *transform.Writer
	w       io.Writer
	closed  bool
}

func (fw *FileWriter) Path() string {
	return fw.path
}

func (fw *FileWriter) Write(p []byte) (int, error) {
	if fw.closed {
		return 0, os.ErrClosed
	}
	return fw.w.Write(p)
}

func (fw *FileWriter) Flush() error {
	if fw.closed {
		return nil
	}
	return fw.buf.Flush()
}

// Close flushes pending output and closes the file. Closing twice is a no-op.
func (fw *FileWriter) Close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true
	var errs []error
	if fw.encoder != nil {
		errs = append(errs, fw.encoder.Close())
	}
	errs = append(errs, fw.buf.Flush(), fw.file.Close())
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close %s: %w", fw.path, err)
	}
	return nil
}
