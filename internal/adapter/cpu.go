package adapter

import "github.com/klauspost/cpuid/v2"

// BestVariant reports the best-matching suffix among a set of per-CPU-
// feature engine binary variants (e.g. an AVX512 build beats a plain AVX2
// build beats the base build), given the host's detected feature set.
// variants maps each name to its required features, and order lists the
// names from most to least demanding; the first one whose required
// feature set the host actually supports wins, falling back to "" (the
// base binary) if none match.
func BestVariant(variants map[string][]cpuid.FeatureID, order []string) string {
	for _, name := range order {
		want := variants[name]
		if len(want) == 0 {
			continue
		}

		supported := true
		for _, f := range want {
			if !cpuid.CPU.Supports(f) {
				supported = false
				break
			}
		}
		if supported {
			return name
		}
	}
	return ""
}

// DefaultVariantOrder is the conventional best-to-worst SIMD tier ordering
// for engine binaries built the way Stockfish's Makefile names its
// variants (bmi2 > avx2 > sse41-popcnt > ...).
var DefaultVariantOrder = []string{"avx512", "bmi2", "avx2", "sse41-popcnt"}

// DefaultVariantRequirements maps DefaultVariantOrder's names to the CPU
// features each build assumes are present.
var DefaultVariantRequirements = map[string][]cpuid.FeatureID{
	"avx512":       {cpuid.AVX512F, cpuid.AVX512BW},
	"bmi2":         {cpuid.BMI2, cpuid.AVX2},
	"avx2":         {cpuid.AVX2},
	"sse41-popcnt": {cpuid.SSE4, cpuid.POPCNT},
}
