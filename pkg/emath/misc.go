package emath

import(
	"math"
	"sort"
)

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

// Percentile returns the q'th percentile (q in [0,100]) of vals, using
// linear interpolation between the closest ranks, the same way numpy
// does by default. vals is not modified. Returns NaN for empty input.
func Percentile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	if q <= 0 { return sorted[0] }
	if q >= 100 { return sorted[len(sorted)-1] }

	pos := (q / 100.0) * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func Clip(v, min, max float64) float64 {
	if v < min { return min }
	if v > max { return max }
	return v
}

// SqrtStretch clips `v` to [vmin,vmax], normalizes to [0,1] and applies
// a square root. See http://ds9.si.edu/ref/how.html#Scales
func SqrtStretch(v, vmin, vmax float64) float64 {
	return math.Sqrt((Clip(v, vmin, vmax) - vmin) / (vmax - vmin))
}
