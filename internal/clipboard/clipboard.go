// Package clipboard provides clipboard access for grid copy and paste.
//
// Grid data travels through the clipboard as tab separated text: one line
// per row, one tab between values.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when the system clipboard is not available.
var ErrUnsupported = errors.New("system clipboard unavailable")

// Clipboard reads and writes clipboard text.
type Clipboard interface {
	// WriteText replaces the clipboard content.
	WriteText(ctx context.Context, text string) error

	// ReadText returns the clipboard content. It may block until the
	// platform clipboard answers; ctx bounds the wait.
	ReadText(ctx context.Context) (string, error)
}

// System is the operating system clipboard.
type System struct{}

// NewSystem returns the system clipboard, or ErrUnsupported when no
// clipboard utility is available on this machine.
func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, ErrUnsupported
	}
	return &System{}, nil
}

// WriteText implements Clipboard.
func (System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}

// ReadText implements Clipboard. The platform read runs on its own goroutine
// so a cancelled ctx returns promptly; the read itself cannot be aborted.
func (System) ReadText(ctx context.Context) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := clipboard.ReadAll()
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("clipboard read: %w", r.err)
		}
		return r.text, nil
	}
}

// Memory is an in-process clipboard, used when the system clipboard is
// unavailable and in tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// WriteText implements Clipboard.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// ReadText implements Clipboard.
func (m *Memory) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// EncodeTSV joins values with tabs between columns and newlines between rows.
func EncodeTSV(values [][]string) string {
	lines := make([]string, len(values))
	for i, row := range values {
		lines[i] = strings.Join(row, "\t")
	}
	return strings.Join(lines, "\n")
}

// DecodeTSV splits text on newlines, then each line on tabs. It is the
// inverse of EncodeTSV; no quoting is recognized. Empty text decodes to a
// single row holding one empty value.
func DecodeTSV(text string) [][]string {
	lines := strings.Split(text, "\n")
	out := make([][]string, len(lines))
	for i, line := range lines {
		out[i] = strings.Split(line, "\t")
	}
	return out
}
