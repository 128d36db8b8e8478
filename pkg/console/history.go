package console

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const DefaultHistorySize = 500

// History keeps the most recent command lines, optionally persisted to a file.
type History struct {
	mu      sync.RWMutex
	entries []string
	max     int
	file    string
}

// NewHistory creates a history bounded to max entries. A non-empty file is
// appended to on every Add.
func NewHistory(max int, file string) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max, file: file}
}

// Load reads previously saved entries from the history file. A missing file is not an error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}
	f, err := os.Open(h.file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			h.entries = append(h.entries, text)
		}
	}
	h.trim()
	return scanner.Err()
}

// Add records a line. Blank lines and repeats of the previous line are skipped.
func (h *History) Add(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return nil
	}
	h.entries = append(h.entries, line)
	h.trim()

	if h.file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.file), os.ModePerm); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	f, err := os.OpenFile(h.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

func (h *History) trim() {
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = append([]string(nil), h.entries[over:]...)
	}
}

// Entries returns all entries, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.entries...)
}

// Last returns up to n of the most recent entries, oldest first.
func (h *History) Last(n int) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n >= len(h.entries) {
		return append([]string(nil), h.entries...)
	}
	return append([]string(nil), h.entries[len(h.entries)-n:]...)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Clear drops all entries and truncates the history file.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	if h.file == "" {
		return nil
	}
	if err := os.Truncate(h.file, 0); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("truncate history file: %w", err)
	}
	return nil
}
