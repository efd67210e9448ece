package bench

// Distribution selects the raw integer source for Value, Words and Date
// segments.
type Distribution int

const (
	DistContext Distribution = iota // default: use the context passed to generate
	DistSerial                      // per-segment counter, incremented after each generate
	DistRandom                      // uniform in [0, max)
	DistZipf                        // Zipf distribution over the segment's range
	DistLog                         // log-decay counter, see engine.LogDecay
)

func (d Distribution) String() string {
	switch d {
	case DistSerial:
		return "serial"
	case DistRandom:
		return "random"
	case DistZipf:
		return "zipf"
	case DistLog:
		return "log"
	default:
		return "context"
	}
}

// ContextRule controls how a Block computes the context it hands to its
// children.
type ContextRule int

const (
	// ContextCombined multiplies the parent context by the block's max and
	// adds the live counter, giving a globally unique integer when the tree
	// has a fixed fanout. This is the default.
	ContextCombined ContextRule = iota
	// ContextIncremental never resets its counter across the block's
	// lifetime.
	ContextIncremental
	// ContextNested zeros its counter on every call to generate.
	ContextNested
)

func (r ContextRule) String() string {
	switch r {
	case ContextIncremental:
		return "incremental"
	case ContextNested:
		return "nested"
	default:
		return "combined"
	}
}

// SegmentKind tags which variant a Segment is. Dispatch on Generate is via a
// method on the concrete type, not on this tag; Kind exists for callers that
// need to branch on segment shape (e.g. validating a parsed tree).
type SegmentKind int

const (
	KindLiteral SegmentKind = iota
	KindValue
	KindWords
	KindDate
	KindVariable
	KindFile
	KindBlock
)

func (k SegmentKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindValue:
		return "value"
	case KindWords:
		return "words"
	case KindDate:
		return "date"
	case KindVariable:
		return "variable"
	case KindFile:
		return "file"
	case KindBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Default bounds preserved bit-for-bit from the original engine; templates
// depend on these for wraparound semantics (spec §6).
const (
	DefaultMax        = 1_000_000_000
	DefaultZipfMax    = 9_999_999
	DefaultZipf       = 99
	MaxIncludeDepth   = 25
	maxTemplateBytes  = 99_999_999
)

// ParseOpt bundles parse-time options. The zero value reproduces the
// default behavior: the template size ceiling is maxTemplateBytes, and
// recoverable configuration warnings are collected on Tree.Issues rather
// than failing the parse.
type ParseOpt struct {
	// MaxBytes overrides maxTemplateBytes for this parse; zero keeps the
	// package default.
	MaxBytes int64
	// FailFast promotes every recoverable configuration warning collected
	// while compiling into a fatal error: a parse that would otherwise
	// succeed with a non-empty Tree.Issues instead returns that Issues
	// value as the error, and no Tree.
	FailFast bool
}

// WordListCacheOptions configures the process-wide word-list cache. The zero
// value is the default: in-memory only, no persistence.
type WordListCacheOptions struct {
	// PersistPath, when non-empty, backs the cache with a bbolt database so
	// resolved word lists survive across process invocations.
	PersistPath string
}

// GenerateOpt bundles optional generation-time behavior. The zero value
// reproduces the original engine's unbounded behavior.
type GenerateOpt struct {
	// MaxBytes caps total bytes written by one GenerateWithOpt call; zero
	// means no ceiling. Exceeding it aborts the generate with an Issues error.
	MaxBytes int64
}
