package skyview

import(
	"fmt"
	"math"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"

	"github.com/abworrall/skyview/pkg/emath"
)

// FluxSummary gives quantiles of the image's pixel values inside the
// bounds, in whole electrons. Negative values (possible once noise is
// added) are counted at zero.
func FluxSummary(img *emath.Image, b emath.Bounds) string {
	b = b.Intersect(img.Bounds)
	if !b.Defined() {
		return "no pixels"
	}

	h := hdrhistogram.New(0, math.MaxInt32, 3)
	for y:=b.YMin; y<=b.YMax; y++ {
		for x:=b.XMin; x<=b.XMax; x++ {
			v := int64(math.Max(0, math.Min(float64(img.At(x, y)), math.MaxInt32)))
			h.RecordValue(v)
		}
	}

	return fmt.Sprintf("n=%d mean=%.1f p50=%d p90=%d p99=%d max=%d",
		h.TotalCount(), h.Mean(),
		h.ValueAtQuantile(50), h.ValueAtQuantile(90), h.ValueAtQuantile(99), h.Max())
}

// AlphaHistogram buckets the non-zero values of a [0,1] grid, scaled to 0-255.
func AlphaHistogram(z emath.FloatGrid) string {
	h := histogram.Histogram{NumBuckets:256, ValMin:0, ValMax:256}
	for _, v := range z.Values() {
		if v > 0 {
			h.Add(histogram.ScalarVal(int(v * 255)))
		}
	}
	return fmt.Sprintf("%v", &h)
}
