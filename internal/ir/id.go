package ir

import "strconv"

// ID is an opaque term identifier.
//
// IDs are allocated by a per-graph logical clock, so numeric order equals
// allocation order: a smaller ID was created earlier. That order is used to
// sort AC multisets, to pick the union-find representative, and to break ties
// in the monomial ordering.
type ID int64

// NoID is the zero ID. It is never allocated.
const NoID ID = 0

// Valid reports whether id could have been allocated by a graph.
func (id ID) Valid() bool {
	return id > 0
}

func (id ID) String() string {
	return "id" + strconv.FormatInt(int64(id), 10)
}

// CompareIDs orders IDs by allocation order.
func CompareIDs(a, b ID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
