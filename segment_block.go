package bench

import (
	"io"

	"github.com/dhentchel/bench/internal/engine"
)

// Block orchestrates iteration over an ordered list of children, computing
// both how many times to iterate and what context to hand each iteration
// (spec §4.2, the core of the generation protocol). Blocks never write
// save-vars (spec §9 open question, resolved: undefined in the source,
// treated here as never happening).
type Block struct {
	id       int
	name     string
	children []Segment

	contextRule ContextRule
	min, max    int64
	ratio       float64 // 0 means not ratio-decayed
	cond        *Condition
	vars        *Variables

	counter int64
	rng     *engine.Uniform
}

func newBlock(id int, name string, children []Segment, rule ContextRule, min, max int64, ratio float64, cond *Condition, vars *Variables) *Block {
	return &Block{
		id:          id,
		name:        name,
		children:    children,
		contextRule: rule,
		min:         min,
		max:         max,
		ratio:       ratio,
		cond:        cond,
		vars:        vars,
	}
}

func (b *Block) Kind() SegmentKind { return KindBlock }

func (b *Block) uniform() *engine.Uniform {
	if b.rng == nil {
		b.rng = engine.NewUniform(b.rngSeed())
	}
	return b.rng
}

func (b *Block) rngSeed() int64 {
	if b.name != "" {
		return baseRNGSeed + nameSeed(b.name)
	}
	return baseRNGSeed + int64(b.id)
}

// Generate implements the six-step algorithm from spec §4.2.
func (b *Block) Generate(parentCtx int64, w io.Writer) (int64, error) {
	if b.cond != nil && !b.cond.Eval(b.vars) {
		return 0, nil
	}

	if b.contextRule != ContextIncremental {
		b.counter = 0
	}

	n := b.iterationCount()

	var total int64
	for i := int64(0); i < n; i++ {
		childCtx := b.childContext(parentCtx)
		for _, child := range b.children {
			written, err := child.Generate(childCtx, w)
			total += written
			if err != nil {
				return total, err
			}
		}
		b.counter++
	}
	return total, nil
}

func (b *Block) childContext(parentCtx int64) int64 {
	switch b.contextRule {
	case ContextCombined:
		return parentCtx*b.max + b.counter
	default: // Incremental, Nested
		return b.counter
	}
}

// iterationCount determines N per spec §4.2 step 4.
func (b *Block) iterationCount() int64 {
	switch {
	case b.min == b.max:
		return b.max
	case b.ratio > 0 && b.ratio < 1:
		return b.ratioDecayedCount()
	default:
		span := b.max - b.min + 1
		if span <= 0 {
			return b.min
		}
		return b.min + int64(b.uniform().Int31n(clampInt32(span)))
	}
}

// ratioDecayedCount walks from min towards max, continuing past each step
// while a fresh uniform draw stays below ratio (spec §4.2 step 4,
// ratio-decayed case). The loop can exit as early as min, and is capped at
// max; both endpoints are inclusive under this implementation's convention
// (spec §9 open question).
func (b *Block) ratioDecayedCount() int64 {
	n := b.min
	for n < b.max {
		if b.uniform().Float32() >= float32(b.ratio) {
			break
		}
		n++
	}
	return n
}
