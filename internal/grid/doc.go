// Package grid provides the in-memory data model behind an editable grid
// widget.
//
// A Model owns an ordered list of columns and an ordered list of rows. Each
// column carries a stable identifier, allocated once and never reused, and a
// display title derived from its position. Each row maps column identifiers
// to plain-text cell values:
//
//	m := grid.New(grid.WithData([][]any{{"a", "b"}, {"c", "d"}}))
//	m.Cell(grid.Address{Col: 1, Row: 1}) // "d", true
//
// Addresses are column first: Address{Col, Row}.
//
// # Growth and Repair
//
// Writes grow the grid as needed. Rows are repaired lazily: structural
// changes that add columns run the fill pass (FillData), which gives every row
// an empty value for every column it is missing without touching existing
// values.
//
// # Change Notification
//
// Every public mutating operation ends by fingerprinting the rows and columns.
// When the fingerprint differs from the previously stored one, the model
// publishes TopicChanged on its event bus. The first fingerprint computed after
// construction is only stored, so loading initial data never notifies.
//
// # Thread Safety
//
// All Model methods are safe for concurrent use; each operation runs under the
// model lock. Renderer callbacks and change notifications are delivered after
// the lock is released, so observers may read the model.
package grid
