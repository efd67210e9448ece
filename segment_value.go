package bench

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Value produces a formatted number: a raw integer chosen by distribution,
// transformed into [min, max], optionally scaled by a decimal ratio and
// formatted, optionally saved to the variables table (spec §4.2).
type Value struct {
	SegmentBase
	format string // e.g. "#0", "#0.00"; only consulted when ratio is set
	ratio  float64
	vars   *Variables
}

func newValue(base SegmentBase, format string, ratio float64, vars *Variables) *Value {
	return &Value{SegmentBase: base, format: format, ratio: ratio, vars: vars}
}

func (v *Value) Kind() SegmentKind { return KindValue }

func (v *Value) Generate(ctx int64, w io.Writer) (int64, error) {
	raw := v.rawInt(ctx)
	result := transform(raw, v.min, v.max, v.factor)

	var out string
	if v.ratio > 0 {
		out = formatDecimal(float64(result)*v.ratio, v.format)
	} else {
		out = strconv.FormatInt(result, 10)
	}

	if v.saveVar != "" && v.vars != nil {
		v.vars.Set(v.saveVar, out)
	}

	n, err := io.WriteString(w, out)
	if err != nil {
		return int64(n), fatalIO(v.name, err)
	}
	return int64(n), nil
}

// formatDecimal renders value according to a "#0.00"-style pattern: the
// digit count after the '.' sets the zero-padded decimal precision; a
// pattern with no '.' (or empty) falls back to two decimal places, matching
// the original engine's DecimalFormat-based default.
func formatDecimal(value float64, pattern string) string {
	precision := 2
	if dot := strings.IndexByte(pattern, '.'); dot >= 0 {
		precision = len(pattern) - dot - 1
	}
	return fmt.Sprintf("%.*f", precision, value)
}
