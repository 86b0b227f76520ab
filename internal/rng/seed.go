package rng

import (
	"crypto/rand"
	"encoding/binary"
	"strings"
)

// NormalizeSeed maps any integer into the canonical seed domain [1, 2^31-1].
// Negative seeds are reflected, out-of-range seeds are wrapped, and zero maps
// to 1. The second return reports whether the input had to be adjusted, so
// callers can surface a warning without failing the request.
func NormalizeSeed(seed int64) (int64, bool) {
	adjusted := false
	if seed < 0 {
		seed = -seed
		adjusted = true
	}
	if seed > SeedMax {
		seed = seed % SeedMax
		adjusted = true
	}
	if seed == 0 {
		seed = 1
		adjusted = true
	}
	return seed, adjusted
}

// SeedFromString hashes an arbitrary string into [1, 2^31-1]. The input is
// trimmed and lower-cased first, so " Riverdale " and "riverdale" name the
// same map. The hash is the classic multiply-by-31 rolling hash computed in
// 32-bit arithmetic.
func SeedFromString(s string) int64 {
	s = strings.ToLower(strings.TrimSpace(s))
	var h int32
	for _, c := range s {
		h = h*31 + int32(c)
	}
	n, _ := NormalizeSeed(int64(h))
	return n
}

// SubSeed derives an independent sub-stream seed from a master seed and a
// label. It is a pure function of its inputs: the same (label, master) pair
// always yields the same sub-seed, and distinct labels decorrelate even for
// adjacent master seeds.
func SubSeed(master int64, label string) int64 {
	var h int64 = master
	for _, c := range label {
		h = (h*31 + int64(c)) & lcgMask
	}
	// A final scramble so label prefixes don't produce clustered seeds.
	h = (h*lcgMultiplier + lcgIncrement) & lcgMask
	if h == 0 {
		h = 1
	}
	return h
}

// RandomSeed returns a fresh non-deterministic seed in [1, 2^31-1]. This is
// the single sanctioned source of true entropy: it exists for callers that
// were given no seed at all, and must never be used inside the pipeline.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing means the platform is broken; a fixed
		// fallback keeps generation possible.
		return 1
	}
	n, _ := NormalizeSeed(int64(binary.LittleEndian.Uint64(b[:]) & lcgMask))
	return n
}
