package bench

import (
	"io"

	"github.com/dhentchel/bench/source/wordlist"
)

// wrapWidth is the hardcoded word-wrap column from the original engine: a
// newline is emitted after every 14 words instead of a space (spec §4.2,
// §9 open question — kept as a fixed default for compatibility).
const wrapWidth = 14

// Words selects words from a resolved word list and concatenates them with
// the original engine's separator convention (spec §4.2).
type Words struct {
	SegmentBase
	source string
	vars   *Variables

	cursor int64 // serial cursor into the word list, persists across calls
	list   [][]byte
}

func newWords(base SegmentBase, source string, vars *Variables) *Words {
	return &Words{SegmentBase: base, source: source, vars: vars}
}

func (wd *Words) Kind() SegmentKind { return KindWords }

func (wd *Words) Generate(ctx int64, w io.Writer) (int64, error) {
	if wd.list == nil {
		wd.list = wordlist.Resolve(wd.source)
	}
	if len(wd.list) == 0 {
		return 0, nil
	}

	count := transform(wd.countRaw(ctx), wd.min, wd.max, wd.factor)
	if count < 0 {
		count = 0
	}

	var total int64
	var out []byte
	for i := int64(0); i < count; i++ {
		idx := wd.wordIndex(ctx)
		out = append(out, wd.list[idx]...)
		if i < count-1 {
			if (i+1)%wrapWidth == 0 {
				out = append(out, '\n')
			} else {
				out = append(out, ' ')
			}
		}
	}

	if wd.saveVar != "" && wd.vars != nil {
		wd.vars.Set(wd.saveVar, string(out))
	}

	n, err := w.Write(out)
	total += int64(n)
	if err != nil {
		return total, fatalIO(wd.name, err)
	}
	return total, nil
}

// countRaw draws how many words to emit; the original engine always rolls a
// fresh uniform long for the count regardless of the per-word distribution.
func (wd *Words) countRaw(ctx int64) int64 {
	return wd.uniform().Int63()
}

// wordIndex picks the next word's list position per distribution (spec
// §4.2). The serial cursor always advances regardless of which branch is
// taken, matching the original engine; Serial and Log both fall through to
// the cursor-modulo default.
func (wd *Words) wordIndex(ctx int64) int {
	n := int64(len(wd.list))
	idx := wd.cursor % n
	switch wd.dist {
	case DistRandom:
		idx = int64(wd.uniform().Int31n(int32(n)))
	case DistZipf:
		idx = wd.zipfN(int(n)).Next() % n
	case DistContext:
		idx = ((ctx % n) + n) % n
	}
	wd.cursor++
	return int(idx)
}
