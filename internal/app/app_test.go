package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/clipboard"
	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/menu"
)

func testEnv(extra ...string) *config.EnvLoader {
	env := append([]string{"KEYGRID_CLIPBOARD_BACKEND=memory"}, extra...)
	return config.NewEnvLoaderFrom(config.EnvPrefix, env)
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.Env == nil {
		opts.Env = testEnv()
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return app
}

// startTestApp starts the application on an 80x25 simulation screen
// without running the event loop; tests feed events to handleEvent.
func startTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	app := newTestApp(t, opts)
	if err := app.SetScreen(tcell.NewSimulationScreen("UTF-8")); err != nil {
		t.Fatalf("SetScreen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := app.start(ctx); err != nil {
		cancel()
		t.Fatalf("start() error = %v", err)
	}
	t.Cleanup(func() {
		cancel()
		app.stop()
	})
	return app
}

func send(t *testing.T, app *Application, events ...tcell.Event) {
	t.Helper()
	for _, ev := range events {
		if err := app.handleEvent(ev); err != nil {
			t.Fatalf("handleEvent(%T) error = %v", ev, err)
		}
	}
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func shiftKey(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModShift)
}

func ctrlKey(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModCtrl)
}

func typeText(s string) []tcell.Event {
	var out []tcell.Event
	for _, r := range s {
		out = append(out, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return out
}

// click presses and releases a mouse button at (x, y).
func click(x, y int, btn tcell.ButtonMask, mod tcell.ModMask) []tcell.Event {
	return []tcell.Event{
		tcell.NewEventMouse(x, y, btn, mod),
		tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone),
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func cellValue(app *Application, col, row int) string {
	v, _ := app.Model().Cell(grid.Address{Col: col, Row: row})
	return v
}

// With 100 rows the gutter is 5 wide and columns are 12 wide.
const (
	testGutter   = 5
	testColWidth = 12
)

func cellX(col int) int { return testGutter + col*testColWidth + 1 }
func cellY(row int) int { return row + 1 }

func TestNewDefaults(t *testing.T) {
	app := newTestApp(t, Options{})

	cols, rows := app.Model().Size()
	if cols != 26 || rows != 100 {
		t.Errorf("Size() = %d, %d, want 26, 100", cols, rows)
	}
	if _, ok := app.Clipboard().(*clipboard.Memory); !ok {
		t.Errorf("Clipboard() = %T, want *clipboard.Memory", app.Clipboard())
	}
	if app.IsRunning() {
		t.Error("IsRunning() = true before Run")
	}
	if got := app.Selection(); got.Kind() != selection.KindRegion || !got.Contains(0, 0) {
		t.Errorf("initial selection = %v, want the first cell", got)
	}
}

func TestNewOptionsOverride(t *testing.T) {
	app := newTestApp(t, Options{
		Width:        30,
		Height:       7,
		LegacyTitles: true,
		Env:          testEnv("KEYGRID_GRID_WIDTH=5"),
	})

	cols, rows := app.Model().Size()
	if cols != 30 || rows != 7 {
		t.Errorf("Size() = %d, %d, want 30, 7", cols, rows)
	}
	columns := app.Model().Columns()
	if got := columns[20].Title; got != "V" {
		t.Errorf("column 20 title = %q, want %q", got, "V")
	}
	if got := columns[26].Title; got != "BA" {
		t.Errorf("column 26 title = %q, want %q", got, "BA")
	}
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(Options{Env: testEnv("KEYGRID_UI_COLUMN_WIDTH=1")})
	if err == nil {
		t.Fatal("New() error = nil, want validation error")
	}

	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Errorf("New() error = %v, want config InitError", err)
	}
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("errors.Is(err, ErrValidationFailed) = false for %v", err)
	}
}

func TestQuitKey(t *testing.T) {
	app := startTestApp(t, Options{})

	err := app.handleEvent(ctrlKey(tcell.KeyCtrlQ))
	if !errors.Is(err, ErrQuit) {
		t.Errorf("handleEvent(Ctrl+Q) = %v, want ErrQuit", err)
	}
}

func TestEditCommit(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, typeText("hi")...)
	if !app.editing {
		t.Fatal("typing did not start an edit")
	}
	send(t, app, key(tcell.KeyEnter))

	if got := cellValue(app, 0, 0); got != "hi" {
		t.Errorf("cell = %q, want %q", got, "hi")
	}
	if app.editing {
		t.Error("still editing after Enter")
	}
	if got := app.term.Cursor(); got != (grid.Address{Col: 0, Row: 1}) {
		t.Errorf("cursor = %v, want [0,1]", got)
	}
}

func TestEditExistingValue(t *testing.T) {
	app := startTestApp(t, Options{})
	if _, err := app.Model().WriteStrings(grid.Address{}, [][]string{{"old"}}); err != nil {
		t.Fatal(err)
	}

	send(t, app, key(tcell.KeyEnter), key(tcell.KeyBackspace))
	send(t, app, typeText("X")...)
	send(t, app, key(tcell.KeyTab))

	if got := cellValue(app, 0, 0); got != "olX" {
		t.Errorf("cell = %q, want %q", got, "olX")
	}
	if got := app.term.Cursor(); got != (grid.Address{Col: 1, Row: 0}) {
		t.Errorf("cursor = %v, want [1,0]", got)
	}
}

func TestEditCancel(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, typeText("xyz")...)
	send(t, app, key(tcell.KeyEscape))

	if got := cellValue(app, 0, 0); got != "" {
		t.Errorf("cell = %q after Esc, want empty", got)
	}
	if app.editing {
		t.Error("still editing after Esc")
	}
}

func TestDeleteClearsCell(t *testing.T) {
	app := startTestApp(t, Options{})
	if _, err := app.Model().WriteStrings(grid.Address{}, [][]string{{"gone"}}); err != nil {
		t.Fatal(err)
	}

	send(t, app, key(tcell.KeyDelete))
	if got := cellValue(app, 0, 0); got != "" {
		t.Errorf("cell = %q after Delete, want empty", got)
	}
}

func TestCursorMovement(t *testing.T) {
	app := startTestApp(t, Options{})

	tests := []struct {
		name string
		ev   *tcell.EventKey
		want grid.Address
	}{
		{"left at origin stays", key(tcell.KeyLeft), grid.Address{Col: 0, Row: 0}},
		{"down", key(tcell.KeyDown), grid.Address{Col: 0, Row: 1}},
		{"right", key(tcell.KeyRight), grid.Address{Col: 1, Row: 1}},
		{"end", key(tcell.KeyEnd), grid.Address{Col: 25, Row: 1}},
		{"right at edge stays", key(tcell.KeyRight), grid.Address{Col: 25, Row: 1}},
		{"home", key(tcell.KeyHome), grid.Address{Col: 0, Row: 1}},
		{"page down", key(tcell.KeyPgDn), grid.Address{Col: 0, Row: 24}},
		{"page up", key(tcell.KeyPgUp), grid.Address{Col: 0, Row: 1}},
		{"up", key(tcell.KeyUp), grid.Address{Col: 0, Row: 0}},
	}
	for _, tt := range tests {
		send(t, app, tt.ev)
		if got := app.term.Cursor(); got != tt.want {
			t.Errorf("%s: cursor = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestShiftExtendsSelection(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, shiftKey(tcell.KeyRight), shiftKey(tcell.KeyDown))

	r, ok := app.Selection().Rect()
	if !ok || r != (grid.Rect{X: 0, Y: 0, Width: 2, Height: 2}) {
		t.Errorf("selection = %+v, %v, want 2x2 region at origin", r, ok)
	}

	send(t, app, key(tcell.KeyEscape))
	r, _ = app.Selection().Rect()
	if r != (grid.Rect{X: 1, Y: 1, Width: 1, Height: 1}) {
		t.Errorf("selection after Esc = %+v, want the cursor cell", r)
	}
}

func TestCopyPasteShortcuts(t *testing.T) {
	app := startTestApp(t, Options{})
	values := [][]string{{"a", "b"}, {"c", "d"}}
	if _, err := app.Model().WriteStrings(grid.Address{}, values); err != nil {
		t.Fatal(err)
	}

	send(t, app, shiftKey(tcell.KeyRight), shiftKey(tcell.KeyDown), ctrlKey(tcell.KeyCtrlC))
	waitFor(t, "clipboard copy", func() bool {
		text, _ := app.Clipboard().ReadText(context.Background())
		return text == "a\tb\nc\td"
	})

	send(t, app, key(tcell.KeyDown), key(tcell.KeyRight), ctrlKey(tcell.KeyCtrlV))
	waitFor(t, "paste", func() bool {
		return cellValue(app, 3, 3) == "d"
	})
	if got := cellValue(app, 2, 2); got != "a" {
		t.Errorf("pasted cell [2,2] = %q, want %q", got, "a")
	}
}

func TestMenuKeyboard(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, key(tcell.KeyF2))
	m := app.Menu()
	if m == nil {
		t.Fatal("F2 did not open a menu")
	}
	if got := len(m.Actionable()); got != 2 {
		t.Errorf("cell menu has %d items, want 2", got)
	}

	send(t, app, key(tcell.KeyDown))
	if app.menuIndex != 1 {
		t.Errorf("menuIndex = %d after Down, want 1", app.menuIndex)
	}
	send(t, app, key(tcell.KeyDown))
	if app.menuIndex != 0 {
		t.Errorf("menuIndex = %d after wrapping, want 0", app.menuIndex)
	}

	send(t, app, key(tcell.KeyEscape))
	if app.Menu() != nil {
		t.Error("Esc did not close the menu")
	}
}

func TestRowHeaderMenuDeletesRow(t *testing.T) {
	app := startTestApp(t, Options{})
	if _, err := app.Model().WriteStrings(grid.Address{Row: 1}, [][]string{{"r1"}, {"r2"}}); err != nil {
		t.Fatal(err)
	}

	send(t, app, click(1, cellY(1), tcell.Button2, tcell.ModNone)...)

	if got := app.Selection(); got.Kind() != selection.KindRows || !got.Contains(0, 1) {
		t.Fatalf("selection = %v, want row 1", got)
	}
	m := app.Menu()
	if m == nil {
		t.Fatal("right click did not open a menu")
	}
	if _, ok := m.Find(menu.TitleDeleteRow); !ok {
		t.Fatalf("row menu lacks %q", menu.TitleDeleteRow)
	}

	// Copy, Paste, separator, Delete row.
	send(t, app, key(tcell.KeyDown), key(tcell.KeyDown))
	if got := m.Items[app.menuIndex].Title; got != menu.TitleDeleteRow {
		t.Fatalf("highlighted item = %q, want %q", got, menu.TitleDeleteRow)
	}
	send(t, app, key(tcell.KeyEnter))

	waitFor(t, "row deletion", func() bool {
		_, rows := app.Model().Size()
		return rows == 99
	})
	if got := cellValue(app, 0, 1); got != "r2" {
		t.Errorf("row 1 = %q after delete, want %q", got, "r2")
	}
	if app.Menu() != nil {
		t.Error("menu still open after running an item")
	}
}

func TestColumnHeaderClick(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, click(cellX(1), 0, tcell.Button1, tcell.ModNone)...)

	sel := app.Selection()
	if sel.Kind() != selection.KindColumns || !sel.Contains(1, 50) || sel.Contains(0, 0) {
		t.Errorf("selection = %v, want column 1", sel)
	}
	if got := app.term.Cursor().Col; got != 1 {
		t.Errorf("cursor column = %d, want 1", got)
	}
}

func TestShiftClickExtends(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, click(cellX(2), cellY(3), tcell.Button1, tcell.ModShift)...)

	r, ok := app.Selection().Rect()
	if !ok || r != (grid.Rect{X: 0, Y: 0, Width: 3, Height: 4}) {
		t.Errorf("selection = %+v, %v, want 3x4 region", r, ok)
	}
	if got := app.term.Cursor(); got != (grid.Address{Col: 2, Row: 3}) {
		t.Errorf("cursor = %v, want [2,3]", got)
	}
}

func TestClickCommitsEdit(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, typeText("typed")...)
	send(t, app, click(cellX(1), cellY(1), tcell.Button1, tcell.ModNone)...)

	if got := cellValue(app, 0, 0); got != "typed" {
		t.Errorf("cell = %q, want the committed edit", got)
	}
	if got := app.term.Cursor(); got != (grid.Address{Col: 1, Row: 1}) {
		t.Errorf("cursor = %v, want [1,1]", got)
	}
}

func TestClickOutsideMenuCloses(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, key(tcell.KeyF2))
	send(t, app, click(79, 23, tcell.Button1, tcell.ModNone)...)

	if app.Menu() != nil {
		t.Error("menu still open after clicking outside it")
	}
}

func TestMouseWheelScrolls(t *testing.T) {
	app := startTestApp(t, Options{})

	send(t, app, tcell.NewEventMouse(10, 10, tcell.WheelDown, tcell.ModNone))
	if got := app.term.Scroll().Row; got != wheelRows {
		t.Errorf("scroll row = %d, want %d", got, wheelRows)
	}
	send(t, app, tcell.NewEventMouse(10, 10, tcell.WheelUp, tcell.ModNone))
	if got := app.term.Scroll().Row; got != 0 {
		t.Errorf("scroll row = %d, want 0", got)
	}
}

func TestModelChangeClampsCursor(t *testing.T) {
	app := startTestApp(t, Options{})

	app.moveCursor(grid.Address{Col: 0, Row: 99}, false)
	app.Model().DeleteRow(99)
	if err := app.handleInterrupt(modelChanged{}); err != nil {
		t.Fatal(err)
	}

	if got := app.term.Cursor(); got != (grid.Address{Col: 0, Row: 98}) {
		t.Errorf("cursor = %v, want [0,98]", got)
	}
}

func TestConfigReload(t *testing.T) {
	app := startTestApp(t, Options{})

	cfg := config.Default()
	cfg.UI.ColumnWidth = 20
	cfg.Grid.Width = 30
	if err := app.handleInterrupt(configReloaded{cfg: cfg}); err != nil {
		t.Fatal(err)
	}

	if got := app.term.ColumnWidth(); got != 20 {
		t.Errorf("ColumnWidth() = %d, want 20", got)
	}
	if cols, _ := app.Model().Size(); cols != 30 {
		t.Errorf("columns = %d, want 30", cols)
	}
	if app.Config() != cfg {
		t.Error("Config() did not switch to the reloaded config")
	}

	if err := app.handleInterrupt(configReloaded{err: errors.New("bad toml")}); err != nil {
		t.Fatal(err)
	}
	if app.Config() != cfg {
		t.Error("failed reload replaced the config")
	}
}

func TestRunCancelledContext(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "init.lua")
	if err := os.WriteFile(script, []byte(`grid.write(0, 0, {{"from script"}})`), 0o644); err != nil {
		t.Fatal(err)
	}

	app := newTestApp(t, Options{ScriptPath: script})
	if err := app.SetScreen(tcell.NewSimulationScreen("UTF-8")); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if app.IsRunning() {
		t.Error("IsRunning() = true after Run returned")
	}
	if got := cellValue(app, 0, 0); got != "from script" {
		t.Errorf("cell = %q, want the script's value", got)
	}
}
