package engine

// LogDecay computes an integer whose occurrence count falls off
// logarithmically: repeatedly multiply a base accumulator by logBase,
// drawing a fresh random 63-bit value at each step and incrementing the
// result when that value is divisible by the accumulator, stopping at the
// first miss (spec §4.2/§4.3). This produces a heavy tail near zero.
func LogDecay(rng *Uniform, logBase int64) int64 {
	if logBase < 2 {
		logBase = 10
	}
	var result int64
	base := int64(1)
	for {
		base *= logBase
		if rng.Int63()%base == 0 {
			result++
		} else {
			return result
		}
	}
}
