// Package script runs Lua scripts against a grid model.
//
// Scripts execute in a sandboxed gopher-lua state with only the base,
// table, string and math libraries; file loading functions are removed.
// A global grid module exposes the model:
//
//	grid.write(col, row, {{"a", "b"}, {1, 2}})
//	local v = grid.cell(col, row)        -- nil outside the grid
//	local cols, rows = grid.size()
//	for i, c in ipairs(grid.columns()) do print(c.id, c.title) end
//	grid.insert_row(pos, "after")        -- "before" is the default
//	grid.delete_row(pos)
//	grid.insert_column(pos, "before")
//	grid.delete_column(pos)
//	grid.set_title(pos, "Total")
//
// Positions are zero-based. Failures raise Lua errors, which the Engine
// returns to the caller.
package script
