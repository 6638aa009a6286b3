package adapter

import "runtime"

// nextPowerOfTwoFloor returns the largest power of two <= n (0 for n<=0).
func nextPowerOfTwoFloor(n int64) int64 {
	if n <= 0 {
		return 0
	}
	p := int64(1)
	for p*2 <= n {
		p *= 2
	}
	return p
}

// DerivedThreads computes max_threads = min(engine-reported max, the
// operator's cap, and the host's available parallelism). A zero cap or
// engine max is treated as "no additional constraint".
func DerivedThreads(engineMax, userCap int64) int64 {
	limit := int64(runtime.GOMAXPROCS(0))
	limit = minPositive(limit, engineMax)
	limit = minPositive(limit, userCap)
	return limit
}

// DerivedHash computes max_hash = min(engine-reported max, the operator's
// cap, and half of the nearest-smaller-or-equal power of two of the host's
// free memory in MiB).
func DerivedHash(engineMax, userCap, freeMemKiB int64) int64 {
	freeMiB := freeMemKiB / 1024
	budget := nextPowerOfTwoFloor(freeMiB) / 2

	limit := budget
	limit = minPositive(limit, engineMax)
	limit = minPositive(limit, userCap)
	return limit
}

// minPositive returns the smaller of a and b, ignoring whichever operand
// is <= 0 (meaning "uncapped"). If both are uncapped, returns a (which is
// itself <= 0 in that case).
func minPositive(a, b int64) int64 {
	if b <= 0 {
		return a
	}
	if a <= 0 {
		return b
	}
	if a < b {
		return a
	}
	return b
}
