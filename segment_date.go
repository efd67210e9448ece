package bench

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DateLayout names the fixed set of output formats a Date segment supports
// (spec §4.2); locale-aware formatting is explicitly a non-goal.
type DateLayout int

const (
	LayoutMDY DateLayout = iota
	LayoutYMD
	LayoutYMDH
	LayoutYMDT
	LayoutOAGI
)

func parseDateLayout(s string) (DateLayout, bool) {
	switch strings.ToLower(s) {
	case "mdy":
		return LayoutMDY, true
	case "ymd":
		return LayoutYMD, true
	case "ymdh":
		return LayoutYMDH, true
	case "ymdt":
		return LayoutYMDT, true
	case "oagi":
		return LayoutOAGI, true
	default:
		return LayoutMDY, false
	}
}

// Date produces a date-time string offset from a start date by a number of
// days chosen the same way a Value segment chooses its integer (spec §4.2).
type Date struct {
	SegmentBase
	layout DateLayout
	start  time.Time
	vars   *Variables
}

func newDate(base SegmentBase, layout DateLayout, start time.Time, vars *Variables) *Date {
	return &Date{SegmentBase: base, layout: layout, start: start, vars: vars}
}

func (d *Date) Kind() SegmentKind { return KindDate }

func (d *Date) Generate(ctx int64, w io.Writer) (int64, error) {
	raw := d.rawInt(ctx)
	offset := transform(raw, d.min, d.max, d.factor)
	t := d.start.AddDate(0, 0, int(offset))

	out := formatDate(d.layout, t)

	if d.saveVar != "" && d.vars != nil {
		d.vars.Set(d.saveVar, out)
	}

	n, err := io.WriteString(w, out)
	if err != nil {
		return int64(n), fatalIO(d.name, err)
	}
	return int64(n), nil
}

func formatDate(layout DateLayout, t time.Time) string {
	switch layout {
	case LayoutYMD:
		return strftime.Format("%Y%m%d", t)
	case LayoutYMDH:
		return strftime.Format("%Y-%m-%d", t)
	case LayoutYMDT:
		return strftime.Format("%Y-%m-%dT%H:%M:%S", t)
	case LayoutOAGI:
		return formatOAGI(t)
	default: // LayoutMDY
		return fmt.Sprintf("%d/%d/%d", t.Month(), t.Day(), t.Year())
	}
}

// formatOAGI assembles the original engine's tag-per-field layout: every
// field is zero-padded, subseconds pad to 4 digits, and the timezone is
// expressed in centi-hours (hundredths of an hour east of UTC).
func formatOAGI(t time.Time) string {
	_, offsetSec := t.Zone()
	centiHours := (offsetSec * 100) / 3600

	b := &strings.Builder{}
	tag := func(name, value string) {
		fmt.Fprintf(b, "<%s>%s</%s>", name, value, name)
	}
	tag("YEAR", strftime.Format("%Y", t))
	tag("MONTH", strftime.Format("%m", t))
	tag("DAY", strftime.Format("%d", t))
	tag("HOUR", strftime.Format("%H", t))
	tag("MINUTE", strftime.Format("%M", t))
	tag("SECOND", strftime.Format("%S", t))
	tag("SUBSECOND", fmt.Sprintf("%04d", t.Nanosecond()/100000))
	tag("TIMEZONE", strconv.Itoa(centiHours))
	return b.String()
}

// parseStartDate accepts "MM/DD/YYYY" (optionally followed by " HH:MM:SS"),
// coercing out-of-range month/day fields modulo the calendar rather than
// rejecting the template (spec §4.2, §7 category 2).
func parseStartDate(spec string) (time.Time, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return time.Now(), nil
	}
	datePart := spec
	timePart := "00:00:00"
	if idx := strings.IndexByte(spec, ' '); idx >= 0 {
		datePart = spec[:idx]
		timePart = strings.TrimSpace(spec[idx+1:])
	}

	fields := strings.Split(datePart, "/")
	if len(fields) != 3 {
		return time.Time{}, fatalf(-1, CodeInvalidDateField, "start date %q is not MM/DD/YYYY", spec)
	}
	month, _ := strconv.Atoi(fields[0])
	day, _ := strconv.Atoi(fields[1])
	year, _ := strconv.Atoi(fields[2])
	month = coerceRange(month, 1, 12)
	day = coerceRange(day, 1, 31)

	hh, mm, ss := 0, 0, 0
	tfields := strings.Split(timePart, ":")
	if len(tfields) == 3 {
		hh, _ = strconv.Atoi(tfields[0])
		mm, _ = strconv.Atoi(tfields[1])
		ss, _ = strconv.Atoi(tfields[2])
	}
	return time.Date(year, time.Month(month), day, hh, mm, ss, 0, time.UTC), nil
}

// coerceRange wraps v into [lo, hi] via modulo, matching the "impossible
// date field coerced modulo the calendar" recoverable-error rule.
func coerceRange(v, lo, hi int) int {
	span := hi - lo + 1
	v = ((v-lo)%span + span) % span
	return v + lo
}
