package bench

import (
	"hash/fnv"
	"io"

	"github.com/dhentchel/bench/internal/engine"
)

// Segment is implemented by every node of a compiled tree. Dispatch is a
// method call on the concrete type, not a switch over Kind; Kind exists for
// callers that need to introspect a compiled tree (spec §9).
type Segment interface {
	Kind() SegmentKind
	// Generate writes this segment's expansion to w using ctx as the
	// caller-chosen context integer, returning the number of bytes written.
	Generate(ctx int64, w io.Writer) (int64, error)
}

// SegmentBase holds the fields every variant shares: identity, the
// statistical configuration common to Value/Words/Date, and the lazily
// built random sources (spec §3). Concrete segment types embed this.
type SegmentBase struct {
	id       int
	name     string
	dist     Distribution
	min      int64
	max      int64
	factor   int64
	saveVar  string
	logBase  int64

	serial int64

	rng  *engine.Uniform
	zipf *engine.Zipf
}

func nameSeed(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}

// baseRNGSeed is the fixed base every segment's own random source starts
// from before mixing in identity; every segment in every tree uses the same
// constant, matching the original engine's hardcoded seed field (spec §4.3).
const baseRNGSeed int64 = 171931

// rngSeed picks the per-segment seed: named segments hash their name onto
// the fixed base seed so that two segments sharing a name produce the same
// sequence; unnamed segments fall back to their unique id (spec §4.3).
func (b *SegmentBase) rngSeed() int64 {
	if b.name != "" {
		return baseRNGSeed + nameSeed(b.name)
	}
	return baseRNGSeed + int64(b.id)
}

// uniform lazily builds and returns this segment's own uniform generator.
func (b *SegmentBase) uniform() *engine.Uniform {
	if b.rng == nil {
		b.rng = engine.NewUniform(b.rngSeed())
	}
	return b.rng
}

// zipfN lazily builds this segment's own Zipf generator over [0, n).
func (b *SegmentBase) zipfN(n int) *engine.Zipf {
	if b.zipf == nil {
		b.zipf = engine.NewZipf(n)
	}
	return b.zipf
}

// zipfLimit computes the Zipf element count for Value/Words segments per
// spec §4.2: clamp(max-min, 1, DefaultZipfMax), or DefaultZipf if min==max.
func zipfLimit(min, max int64) int {
	if min == max {
		return DefaultZipf
	}
	n := max - min
	if n < 1 {
		n = 1
	}
	if n > DefaultZipfMax {
		n = DefaultZipfMax
	}
	return int(n)
}

// rawInt draws the raw pre-transform integer for the segment's distribution,
// given the context handed down by the parent (spec §4.2).
func (b *SegmentBase) rawInt(ctx int64) int64 {
	switch b.dist {
	case DistSerial:
		v := b.serial
		b.serial++
		return v
	case DistRandom:
		n := b.max
		if n <= 0 {
			n = DefaultMax
		}
		return int64(b.uniform().Int31n(clampInt32(n)))
	case DistZipf:
		return b.zipfN(zipfLimit(b.min, b.max)).Next()
	case DistLog:
		return engine.LogDecay(b.uniform(), b.logBase)
	default: // DistContext
		return ctx
	}
}

func clampInt32(n int64) int32 {
	if n <= 0 {
		return 1
	}
	if n > int64(1<<31-1) {
		return 1 << 31 - 1
	}
	return int32(n)
}

// transform applies the Value transform formula from spec §4.2:
// result = (raw*factor) mod (max-min+1) + min when min < max, else min.
func transform(raw, min, max, factor int64) int64 {
	if factor < 1 {
		factor = 1
	}
	if min >= max {
		return min
	}
	span := max - min + 1
	v := (raw * factor) % span
	if v < 0 {
		v += span
	}
	return v + min
}
