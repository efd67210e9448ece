package bench

import (
	"io"
	"strconv"
)

// Variable reads and optionally increments an entry in the variables table
// (spec §4.2 mode 1). Bulk-load (`source=`) variables never reach this
// type: they are consumed at parse time and removed from the tree.
type Variable struct {
	id        int
	name      string
	increment int64
	hasIncr   bool
	vars      *Variables

	nonNumeric int64 // auxiliary counter used when the current value won't parse as an integer
}

func newVariable(id int, name, defaultVal string, increment int64, hasIncr bool, vars *Variables) *Variable {
	if vars != nil && !vars.Has(name) {
		vars.Set(name, defaultVal)
	}
	return &Variable{id: id, name: name, increment: increment, hasIncr: hasIncr, vars: vars}
}

func (v *Variable) Kind() SegmentKind { return KindVariable }

func (v *Variable) Generate(ctx int64, w io.Writer) (int64, error) {
	current := v.vars.Get(v.name)
	out := current

	if v.hasIncr {
		if n, err := strconv.ParseInt(current, 10, 64); err == nil {
			out = strconv.FormatInt(n+v.increment, 10)
		} else {
			v.nonNumeric += v.increment
			out = current + strconv.FormatInt(v.nonNumeric, 10)
		}
	}

	n, err := io.WriteString(w, out)
	if err != nil {
		return int64(n), fatalIO(v.name, err)
	}
	return int64(n), nil
}
