package outputproviders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrInvalidOperand is returned for a redirection without a target.
	ErrInvalidOperand = errors.New("redirection operand must not be empty")

	// ErrRedirect wraps file system failures while opening a redirection target.
	ErrRedirect = errors.New("redirection failed")
)

// ResolvePath makes the operand absolute, resolving relative paths against workingDir
// (or the process working directory when workingDir is empty).
func ResolvePath(operand string, workingDir string) (string, error) {
	operand = strings.TrimSpace(operand)
	if operand == "" {
		return "", ErrInvalidOperand
	}
	if filepath.IsAbs(operand) {
		return filepath.Clean(operand), nil
	}
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrRedirect, err)
		}
		workingDir = wd
	}
	return filepath.Abs(GetFullPath(operand, workingDir))
}

// GetFullPath constructs the full file path from filename and output path
func GetFullPath(filename string, outputPath string) string {
	return outputPath + string(os.PathSeparator) + filename
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", ErrRedirect, dir, err)
		}
	}
	return nil
}

// LookupEncoding resolves a character encoding by its WHATWG or IANA name.
// An empty name or any UTF-8 alias returns nil, meaning no transcoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}
