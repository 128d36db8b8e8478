// Package console is the terminal boundary of the shell: it reads input lines
// and owns the output streams commands write to.
package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ErrTerminated is returned by a command that ends the shell.
var ErrTerminated = errors.New("console terminated")

// ErrLineTooLong is returned by ReadLine for an input line longer than the
// console's limit. The line is discarded and reading goes on with the next one.
var ErrLineTooLong = errors.New("input line too long")

// DefaultMaxLineSize is the longest input line a console accepts.
const DefaultMaxLineSize = 1024 * 1024

const clearScreen = "\033[H\033[2J"

type line struct {
	text string
	err  error
}

// Console reads command lines and routes command output. The output writer may
// be swapped for the duration of a command to redirect it.
type Console struct {
	mu         sync.RWMutex
	in         io.Reader
	lines      chan line
	startRead  sync.Once
	done       chan struct{}
	closeOnce  sync.Once
	maxLine    int
	stdout     io.Writer
	out        io.Writer
	errOut     io.Writer
	prompt     string
	workingDir string
	encoding   string
	history    *History
	styled     bool

	errorColor  *color.Color
	promptColor *color.Color
}

// Option configures a Console.
type Option func(*Console)

func WithPrompt(prompt string) Option {
	return func(c *Console) {
		c.prompt = prompt
	}
}

func WithWorkingDir(dir string) Option {
	return func(c *Console) {
		c.workingDir = dir
	}
}

// WithEncoding names the character encoding of redirected output.
func WithEncoding(name string) Option {
	return func(c *Console) {
		c.encoding = name
	}
}

func WithHistory(h *History) Option {
	return func(c *Console) {
		c.history = h
	}
}

// WithMaxLineSize limits the length of an input line in bytes.
func WithMaxLineSize(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.maxLine = n
		}
	}
}

// WithStyles forces colored output on or off.
func WithStyles(styled bool) Option {
	return func(c *Console) {
		c.styled = styled
	}
}

// New creates a console over the given streams. Colors are enabled when stdout
// is a terminal.
func New(in io.Reader, out io.Writer, errOut io.Writer, opts ...Option) *Console {
	c := &Console{
		in:          in,
		lines:       make(chan line),
		done:        make(chan struct{}),
		maxLine:     DefaultMaxLineSize,
		stdout:      out,
		out:         out,
		errOut:      errOut,
		prompt:      "conch> ",
		history:     NewHistory(DefaultHistorySize, ""),
		styled:      isTerminal(out),
		errorColor:  color.New(color.FgRed),
		promptColor: color.New(color.FgGreen, color.Bold),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.workingDir = wd
		}
	}
	return c
}

// NewStd creates a console on the process standard streams.
func NewStd(opts ...Option) *Console {
	return New(os.Stdin, os.Stdout, os.Stderr, opts...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) read() {
	defer close(c.lines)
	r := bufio.NewReader(c.in)
	for {
		text, err := readLine(r, c.maxLine)
		select {
		case c.lines <- line{text: text, err: err}:
		case <-c.done:
			return
		}
		if err != nil && !errors.Is(err, ErrLineTooLong) {
			return
		}
	}
}

// readLine reads up to the next newline and strips the line ending. A line
// longer than limit is consumed and reported as ErrLineTooLong. The final line
// does not need a newline.
func readLine(r *bufio.Reader, limit int) (string, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > limit+2 {
				tooLong, buf = true, nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(buf) == 0 && !tooLong {
			return "", io.EOF
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		break
	}
	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if tooLong || len(buf) > limit {
		return "", ErrLineTooLong
	}
	return string(buf), nil
}

// ReadLine prints the prompt and waits for the next input line. It returns
// io.EOF when the input is exhausted or the console is closed and ctx.Err()
// when ctx is done first. ErrLineTooLong reports a discarded line; the next
// call reads on.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-c.done:
		return "", io.EOF
	default:
	}
	c.startRead.Do(func() {
		go c.read()
	})
	c.writePrompt()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.done:
		return "", io.EOF
	case l, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

// Close stops the input reader. A read already blocked on the input returns
// first; its line is dropped.
func (c *Console) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

func (c *Console) writePrompt() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.prompt == "" {
		return
	}
	if c.styled {
		c.promptColor.Fprint(c.stdout, c.prompt)
		return
	}
	fmt.Fprint(c.stdout, c.prompt)
}

// Write writes to the current output writer.
func (c *Console) Write(p []byte) (int, error) {
	return c.Writer().Write(p)
}

// Writer returns the current output writer.
func (c *Console) Writer() io.Writer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.out
}

// SetWriter redirects command output. Passing nil restores standard output.
func (c *Console) SetWriter(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w == nil {
		w = c.stdout
	}
	c.out = w
}

// IsRedirected reports whether output currently goes somewhere other than stdout.
func (c *Console) IsRedirected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.out != c.stdout
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

// Errorf writes an error line to the error stream.
func (c *Console) Errorf(format string, args ...any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.styled {
		c.errorColor.Fprintf(c.errOut, format+"\n", args...)
		return
	}
	fmt.Fprintf(c.errOut, format+"\n", args...)
}

// ErrWriter returns the error stream.
func (c *Console) ErrWriter() io.Writer {
	return c.errOut
}

// Clear clears the terminal. It does nothing when output is not a styled terminal.
func (c *Console) Clear() {
	if !c.IsStyled() || c.IsRedirected() {
		return
	}
	fmt.Fprint(c.stdout, clearScreen)
}

func (c *Console) IsStyled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.styled
}

func (c *Console) Prompt() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prompt
}

func (c *Console) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompt = prompt
}

func (c *Console) WorkingDir() string {
	return c.workingDir
}

func (c *Console) Encoding() string {
	return c.encoding
}

func (c *Console) History() *History {
	return c.history
}
