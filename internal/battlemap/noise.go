package battlemap

import "math"

// Lattice value noise shared by the geology, topography, vegetation and
// structures stages. Seeds are plain int64 values drawn once per field from
// the relevant rng sub-stream, so the fields are independent but fully
// reproducible.

// valueNoise2D returns a smooth noise value in [0,1] for the given
// coordinates, using lattice value noise with hermite interpolation.
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	// Hermite smoothstep.
	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// fractalNoise2D sums octaves of value noise with persistence 0.5, each
// octave doubling frequency. Output is normalized back into [0,1].
func fractalNoise2D(x, y float64, seed int64, octaves int) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := 1.0
	maxValue := 0.0
	for o := 0; o < octaves; o++ {
		total += valueNoise2D(x*frequency, y*frequency, seed+int64(o)*7919) * amplitude
		maxValue += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / maxValue
}

// latticeValue returns a pseudo-random value in [0,1] for integer lattice
// coordinates. Hash-combines x, y and seed; no table, no state.
func latticeValue(x, y int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(int64(x)) * 0x517cc1b727220a95
	h ^= uint64(int64(y)) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// tileHash01 is an order-independent per-tile gate: a deterministic value in
// [0,1] for (x, y, seed, salt). Plant placement uses it so that whether a
// tile hosts a tree never depends on how many tiles were visited before it.
func tileHash01(x, y int, seed int64, salt uint64) float64 {
	h := uint64(seed) ^ salt*0x9e3779b97f4a7c15
	h ^= uint64(int64(x)+1) * 0xff51afd7ed558ccd
	h ^= uint64(int64(y)+1) * 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
