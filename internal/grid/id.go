package grid

import "strconv"

// DefaultIDPrefix prefixes generated column IDs.
const DefaultIDPrefix = "c"

// idAllocator hands out column IDs. The counter only increases, so an ID is
// never handed out twice even after its column is deleted.
type idAllocator struct {
	next uint64
}

// allocate returns prefix followed by the next counter value, starting at 1.
func (a *idAllocator) allocate(prefix string) string {
	a.next++
	return prefix + strconv.FormatUint(a.next, 10)
}
