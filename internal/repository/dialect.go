package repository

import (
	"strconv"
	"strings"
)

// Dialect selects the placeholder style of the catalog database.
type Dialect int

const (
	MySQL    Dialect = iota // ? placeholders
	Postgres                // $1, $2, ... placeholders
)

// rebind rewrites ? placeholders for the dialect. Queries in this package
// never contain a literal question mark.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
