package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keygrid/internal/grid"
)

// module implements the grid Lua module.
type module struct {
	model *grid.Model
}

func newModule(model *grid.Model) *module {
	return &module{model: model}
}

// table builds the module table.
func (m *module) table(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"write":         m.write,
		"cell":          m.cell,
		"size":          m.size,
		"columns":       m.columns,
		"insert_row":    m.insertRow,
		"delete_row":    m.deleteRow,
		"insert_column": m.insertColumn,
		"delete_column": m.deleteColumn,
		"set_title":     m.setTitle,
	})
}

// write(col, row, values) -> cells written
// values is an array of row arrays.
func (m *module) write(L *lua.LState) int {
	col := L.CheckInt(1)
	row := L.CheckInt(2)
	tbl := L.CheckTable(3)

	values := make([][]any, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		r, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(3, "rows must be tables")
			return 0
		}
		vals := make([]any, r.Len())
		for j := 1; j <= r.Len(); j++ {
			vals[j-1] = toGo(r.RawGetInt(j))
		}
		values = append(values, vals)
	}

	changes, err := m.model.Write(grid.Address{Col: col, Row: row}, values)
	if err != nil {
		L.RaiseError("write: %v", err)
		return 0
	}
	L.Push(lua.LNumber(len(changes)))
	return 1
}

// cell(col, row) -> string or nil
func (m *module) cell(L *lua.LState) int {
	v, ok := m.model.Cell(grid.Address{Col: L.CheckInt(1), Row: L.CheckInt(2)})
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

// size() -> columns, rows
func (m *module) size(L *lua.LState) int {
	cols, rows := m.model.Size()
	L.Push(lua.LNumber(cols))
	L.Push(lua.LNumber(rows))
	return 2
}

// columns() -> array of {id, title}
func (m *module) columns(L *lua.LState) int {
	out := L.NewTable()
	for _, c := range m.model.Columns() {
		out.Append(columnTable(L, c))
	}
	L.Push(out)
	return 1
}

// insert_row(pos [, side]) -> index of the new row
func (m *module) insertRow(L *lua.LState) int {
	pos := L.CheckInt(1)
	side := checkSide(L, 2)
	L.Push(lua.LNumber(m.model.InsertRow(pos, side)))
	return 1
}

// delete_row(pos) -> bool
func (m *module) deleteRow(L *lua.LState) int {
	L.Push(lua.LBool(m.model.DeleteRow(L.CheckInt(1))))
	return 1
}

// insert_column(pos [, side]) -> {id, title}
func (m *module) insertColumn(L *lua.LState) int {
	pos := L.CheckInt(1)
	side := checkSide(L, 2)
	L.Push(columnTable(L, m.model.InsertColumn(pos, side)))
	return 1
}

// delete_column(pos) -> bool
func (m *module) deleteColumn(L *lua.LState) int {
	_, ok := m.model.DeleteColumn(L.CheckInt(1))
	L.Push(lua.LBool(ok))
	return 1
}

// set_title(pos, title)
func (m *module) setTitle(L *lua.LState) int {
	if err := m.model.SetTitle(L.CheckInt(1), L.CheckString(2)); err != nil {
		L.RaiseError("set_title: %v", err)
	}
	return 0
}

func checkSide(L *lua.LState, n int) grid.Side {
	switch s := L.OptString(n, "before"); s {
	case "before":
		return grid.Before
	case "after":
		return grid.After
	default:
		L.ArgError(n, `side must be "before" or "after"`)
		return grid.Before
	}
}

func columnTable(L *lua.LState, c grid.Column) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(c.ID))
	t.RawSetString("title", lua.LString(c.Title))
	return t
}

// toGo converts a Lua cell value to the form the model stringifies.
func toGo(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return float64(v)
	case lua.LBool:
		return bool(v)
	case *lua.LNilType:
		return nil
	default:
		return v.String()
	}
}
