// Package engine holds the statistical primitives the template generator
// drives value selection with: a seeded uniform generator, a Zipf sampler,
// and the log-decay counter. None of this is part of the public API.
package engine

const (
	lcgMultiplier uint64 = 0x5DEECE66D
	lcgIncrement  uint64 = 0xB
	lcgMask       uint64 = (1 << 48) - 1
)

// Uniform is a 48-bit linear-congruential generator using the same
// recurrence as java.util.Random, chosen so that name-seeded and
// fixed-prime-seeded sequences behave the way the original engine's seeding
// scheme (spec §4.3/§9) intends: same seed, same sequence, every run.
type Uniform struct {
	seed uint64
}

// NewUniform seeds a generator exactly as java.util.Random(seed) would.
func NewUniform(seed int64) *Uniform {
	return &Uniform{seed: (uint64(seed) ^ lcgMultiplier) & lcgMask}
}

func (u *Uniform) next(bits uint) int32 {
	u.seed = (u.seed*lcgMultiplier + lcgIncrement) & lcgMask
	return int32(u.seed >> (48 - bits))
}

// Int31n returns a uniform value in [0, n). n must be positive.
func (u *Uniform) Int31n(n int32) int32 {
	if n <= 0 {
		return 0
	}
	if n&(n-1) == 0 { // power of two
		return int32((int64(n) * int64(u.next(31))) >> 31)
	}
	for {
		bits := u.next(31)
		val := bits % n
		if bits-val+(n-1) >= 0 {
			return val
		}
	}
}

// Int63 returns a uniform non-negative 63-bit value (matches nextLong's
// magnitude well enough for a day-offset or raw-value source; the engine
// never needs the full signed 64-bit range).
func (u *Uniform) Int63() int64 {
	hi := int64(u.next(32))
	lo := int64(u.next(32))
	return hi<<32 + lo
}

// Float64 returns a uniform value in [0.0, 1.0), used by the Zipf sampler
// and by the ratio-decayed block iteration count.
func (u *Uniform) Float64() float64 {
	hi := int64(u.next(26))
	lo := int64(u.next(27))
	return float64(hi<<27+lo) / float64(int64(1)<<53)
}

// Float32 returns a uniform value in [0.0, 1.0) at single precision, used by
// the block ratio-decay loop to match the original engine's nextFloat.
func (u *Uniform) Float32() float32 {
	return float32(u.next(24)) / float32(int32(1)<<24)
}
