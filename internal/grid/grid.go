package grid

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/keygrid/internal/event"
)

// TopicChanged is published, without payload, when the grid content changes.
const TopicChanged event.Topic = "grid.changed"

// eventSource identifies the model as an event publisher.
const eventSource = "grid"

// Model is the grid data model.
type Model struct {
	mu sync.RWMutex

	columns []Column
	rows    []Row

	// width and height are display hints, not limits.
	width  int
	height int

	ids idAllocator

	// titles derives a column title from its position.
	titles func(pos int) string

	renderer Renderer
	bus      *event.Bus

	// lastSum is the previously stored fingerprint; empty until the first
	// fingerprint is taken.
	lastSum string

	seed [][]any
}

// New creates a model. Data supplied with WithData is written at (0, 0),
// growing the grid beyond the size hints if needed.
func New(opts ...Option) *Model {
	m := &Model{
		width:  DefaultWidth,
		height: DefaultHeight,
		titles: DefaultAlphabet.Title,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = event.NewBus()
	}

	if len(m.seed) > 0 {
		_, _ = m.Write(Address{}, m.seed)
	}
	m.seed = nil
	return m
}

// Bus returns the bus change notifications are published on.
func (m *Model) Bus() *event.Bus {
	return m.bus
}

// OnChange registers fn to run after every content change.
func (m *Model) OnChange(fn func()) (event.Subscription, error) {
	return m.bus.Subscribe(TopicChanged, func(context.Context, event.Event) error {
		fn()
		return nil
	})
}

// SetRenderer replaces the rendering surface.
func (m *Model) SetRenderer(r Renderer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderer = r
}

// Renderer returns the rendering surface, or nil.
func (m *Model) Renderer() Renderer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.renderer
}

// Width returns the display width hint.
func (m *Model) Width() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.width
}

// Height returns the display height hint.
func (m *Model) Height() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.height
}

// Size returns the current column and row counts.
func (m *Model) Size() (cols, rows int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.columns), len(m.rows)
}

// Columns returns a copy of the column list.
func (m *Model) Columns() []Column {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Column(nil), m.columns...)
}

// Rows returns a deep copy of the rows.
func (m *Model) Rows() []Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cloneRows()
}

func (m *Model) cloneRows() []Row {
	out := make([]Row, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.Clone()
	}
	return out
}

// Snapshot is a consistent copy of the model content.
type Snapshot struct {
	Columns []Column
	Rows    []Row
}

// Snapshot returns the columns and rows as of a single point in time.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Columns: append([]Column(nil), m.columns...),
		Rows:    m.cloneRows(),
	}
}

// Cell returns the value at addr and whether the cell exists.
func (m *Model) Cell(addr Address) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if addr.Row < 0 || addr.Row >= len(m.rows) || addr.Col < 0 || addr.Col >= len(m.columns) {
		return "", false
	}
	v, ok := m.rows[addr.Row][m.columns[addr.Col].ID]
	return v, ok
}

// RowData projects rows [start, end) through the full column list. The
// bounds are clamped to the existing rows.
func (m *Model) RowData(start, end int) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start, end = clampSpan(start, end, len(m.rows))
	out := make([][]string, 0, end-start)
	for _, r := range m.rows[start:end] {
		vals := make([]string, len(m.columns))
		for i, c := range m.columns {
			vals[i] = r[c.ID]
		}
		out = append(out, vals)
	}
	return out
}

// Enlarge grows the grid to at least cols columns and rows rows.
func (m *Model) Enlarge(cols, rows int) {
	m.mu.Lock()
	m.enlarge(cols, rows)
	changed := m.recordFingerprint()
	m.mu.Unlock()

	m.emitIfChanged(changed)
}

func (m *Model) enlarge(cols, rows int) {
	added := false
	for len(m.columns) < cols {
		m.columns = append(m.columns, Column{ID: m.ids.allocate(DefaultIDPrefix), Title: "."})
		added = true
	}
	if added {
		m.retitle()
	}

	for len(m.rows) < rows {
		m.rows = append(m.rows, m.newRow())
	}

	if added {
		m.fill()
	}
}

// Write copies values into the grid with values[0][0] at target, growing
// the grid to cover target.Col plus the longest row, and target.Row plus
// len(values) rows. Rows of values may have different lengths, including
// none; only empty values leave the grid size alone. Every value is stored
// as its string form.
// Write returns the touched cells, reports them to the renderer, then runs
// change detection.
func (m *Model) Write(target Address, values [][]any) ([]CellChange, error) {
	if target.Col < 0 || target.Row < 0 {
		return nil, fmt.Errorf("write at %s: %w", target, ErrNegativeAddress)
	}

	m.mu.Lock()
	maxCols := 0
	for _, r := range values {
		if len(r) > maxCols {
			maxCols = len(r)
		}
	}
	if len(values) > 0 {
		m.enlarge(target.Col+maxCols, target.Row+len(values))
	}

	var changes []CellChange
	for r, vals := range values {
		if len(vals) == 0 {
			continue
		}
		row := m.rows[target.Row+r]
		for c, v := range vals {
			row[m.columns[target.Col+c].ID] = stringify(v)
			changes = append(changes, CellChange{Cell: Address{Col: target.Col + c, Row: target.Row + r}})
		}
	}
	renderer := m.renderer
	changed := m.recordFingerprint()
	m.mu.Unlock()

	if renderer != nil {
		renderer.ApplyCellChanges(changes)
	}
	m.emitIfChanged(changed)
	return changes, nil
}

// WriteStrings is Write for string values.
func (m *Model) WriteStrings(target Address, values [][]string) ([]CellChange, error) {
	return m.Write(target, Strings(values))
}

// Strings converts string rows to the value rows accepted by Write.
func Strings(values [][]string) [][]any {
	out := make([][]any, len(values))
	for i, r := range values {
		out[i] = make([]any, len(r))
		for j, v := range r {
			out[i][j] = v
		}
	}
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// NewRow returns a row with an empty value for every column.
func (m *Model) NewRow() Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newRow()
}

func (m *Model) newRow() Row {
	r := make(Row, len(m.columns))
	for _, c := range m.columns {
		r[c.ID] = ""
	}
	return r
}

// FillData gives every row an empty value for each column it lacks.
// Existing values are never overwritten, so calling it again has no effect.
func (m *Model) FillData() {
	m.mu.Lock()
	m.fill()
	changed := m.recordFingerprint()
	m.mu.Unlock()

	m.emitIfChanged(changed)
}

func (m *Model) fill() {
	for _, r := range m.rows {
		for _, c := range m.columns {
			if _, ok := r[c.ID]; !ok {
				r[c.ID] = ""
			}
		}
	}
}

// retitle derives every column title from its position.
func (m *Model) retitle() {
	for i := range m.columns {
		m.columns[i].Title = m.titles(i)
	}
}

// clampSpan clamps [start, end) to [0, n]. Out of range bounds shrink the
// span rather than fail.
func clampSpan(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end < 0 {
		end = 0
	}
	if start > end {
		start = end
	}
	return start, end
}
