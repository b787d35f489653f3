package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/keygrid/internal/grid"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *grid.Model) {
	t.Helper()
	model := grid.New()
	model.Enlarge(3, 3)
	e := New(model, opts...)
	t.Cleanup(func() { _ = e.Close() })
	return e, model
}

func cell(t *testing.T, m *grid.Model, col, row int) string {
	t.Helper()
	v, ok := m.Cell(grid.Address{Col: col, Row: row})
	if !ok {
		t.Fatalf("cell [%d,%d] missing", col, row)
	}
	return v
}

func TestWrite(t *testing.T) {
	e, m := newTestEngine(t)

	err := e.Run(context.Background(), "write", `
		local n = grid.write(1, 1, {{"a", 2}, {true, "", 3.5}})
		assert(n == 5, "wrote " .. n)
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tests := []struct {
		col, row int
		want     string
	}{
		{1, 1, "a"},
		{2, 1, "2"},
		{1, 2, "true"},
		{2, 2, ""},
		{3, 2, "3.5"},
	}
	for _, tt := range tests {
		if got := cell(t, m, tt.col, tt.row); got != tt.want {
			t.Errorf("cell [%d,%d] = %q, want %q", tt.col, tt.row, got, tt.want)
		}
	}

	if cols, rows := m.Size(); cols != 4 || rows != 3 {
		t.Errorf("Size() = %d, %d; want 4, 3", cols, rows)
	}
}

func TestWriteNegativeAddress(t *testing.T) {
	e, _ := newTestEngine(t)

	err := e.Run(context.Background(), "neg", `grid.write(-1, 0, {{"x"}})`)
	if err == nil || !strings.Contains(err.Error(), "negative") {
		t.Errorf("Run() error = %v, want negative address error", err)
	}
}

func TestReadFunctions(t *testing.T) {
	var out bytes.Buffer
	e, m := newTestEngine(t, WithOutput(&out))
	if _, err := m.WriteStrings(grid.Address{Col: 2, Row: 0}, [][]string{{"hi"}}); err != nil {
		t.Fatal(err)
	}

	err := e.Run(context.Background(), "read", `
		local cols, rows = grid.size()
		print(cols, rows)
		print(grid.cell(2, 0), grid.cell(9, 9))
		for _, c in ipairs(grid.columns()) do print(c.id, c.title) end
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "3\t3\nhi\tnil\nc1\tA\nc2\tB\nc3\tC\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestStructureFunctions(t *testing.T) {
	e, m := newTestEngine(t)

	err := e.Run(context.Background(), "structure", `
		assert(grid.insert_row(0, "after") == 1)
		assert(grid.insert_row(0) == 0)
		local c = grid.insert_column(0, "before")
		assert(c.id == "c4" and c.title == "A", c.id .. " " .. c.title)
		assert(grid.delete_column(3))
		assert(not grid.delete_column(10))
		assert(grid.delete_row(4))
		assert(not grid.delete_row(-1))
		grid.set_title(0, "Key")
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	cols, rows := m.Size()
	if cols != 3 || rows != 4 {
		t.Errorf("Size() = %d, %d; want 3, 4", cols, rows)
	}
	if got := m.Columns()[0].Title; got != "Key" {
		t.Errorf("title = %q, want Key", got)
	}
}

func TestBadArguments(t *testing.T) {
	e, _ := newTestEngine(t)

	tests := map[string]string{
		"bad side":      `grid.insert_row(0, "sideways")`,
		"row not table": `grid.write(0, 0, {"x"})`,
		"title range":   `grid.set_title(7, "x")`,
		"missing arg":   `grid.cell(0)`,
	}
	for name, code := range tests {
		t.Run(name, func(t *testing.T) {
			if err := e.Run(context.Background(), name, code); err == nil {
				t.Error("Run() should fail")
			}
		})
	}
}

func TestSandbox(t *testing.T) {
	e, _ := newTestEngine(t)

	for _, code := range []string{
		`io.open("/etc/passwd")`,
		`os.exit(1)`,
		`dofile("/tmp/x.lua")`,
		`load("return 1")()`,
		`require("os")`,
	} {
		if err := e.Run(context.Background(), "sandbox", code); err == nil {
			t.Errorf("Run(%q) should fail in the sandbox", code)
		}
	}

	if err := e.Run(context.Background(), "libs", `
		assert(string.upper("a") == "A")
		assert(math.max(1, 2) == 2)
		local t = {}
		table.insert(t, 1)
	`); err != nil {
		t.Errorf("safe libraries should be available: %v", err)
	}
}

func TestTimeout(t *testing.T) {
	e, _ := newTestEngine(t, WithTimeout(50*time.Millisecond))

	err := e.Run(context.Background(), "loop", `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("Run() error = %v, want ErrExecutionTimeout", err)
	}

	// the engine stays usable
	if err := e.Run(context.Background(), "after", `grid.size()`); err != nil {
		t.Errorf("Run() after timeout error = %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	e, _ := newTestEngine(t, WithTimeout(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx, "loop", `while true do end`); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunFile(t *testing.T) {
	e, m := newTestEngine(t)

	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`grid.write(0, 0, {{"from file"}})`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := e.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
	if got := cell(t, m, 0, 0); got != "from file" {
		t.Errorf("cell [0,0] = %q", got)
	}

	if err := e.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("RunFile() on a missing file should fail")
	}
}

func TestClosed(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := e.Run(context.Background(), "x", `print(1)`); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Run() error = %v, want ErrEngineClosed", err)
	}
}
