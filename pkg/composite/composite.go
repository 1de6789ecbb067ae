package composite

import(
	"errors"
	"fmt"
	"math"

	"github.com/abworrall/skyview/pkg/ecolor"
	"github.com/abworrall/skyview/pkg/emath"
)

var ErrEmptyView = errors.New("nothing to show in the view")

// MinZScalePixels is the smallest selected sub-image we will derive the
// high clip from; anything smaller falls back to the whole survey.
const MinZScalePixels = 16

// Options control the compositing.
type Options struct {
	HideBackground      bool
	HideSelected        bool

	ClipHiPercentile    float64       // percentile of non-zero pixels to clip high fluxes at
	ClipLoNoiseFraction float64       // clip low fluxes at this fraction of the sky noise
	NoiseAdded          bool          // if set, background low clip uses ClipNoise instead
	ClipNoise           float64       // in sigmas of sky noise

	MeanSkyLevel        float64
	Colormap           *ecolor.Colormap
	Highlight          *emath.Vec3    // nil: just show the colormapped background
}

// Input is what gets composited. Selected may be nil.
type Input struct {
	View     emath.Bounds
	Survey  *emath.Image
	Selected *emath.Image
}

// ClipRange is where fluxes were clipped, and why.
type ClipRange struct {
	VMin           float64  // used for the highlighted pixels
	VMinBackground float64  // differs from VMin once noise is added
	VMax           float64
	FromSelected   bool     // VMax came from the selected pixels, not the full image
}

func (cr ClipRange)String() string {
	return fmt.Sprintf("[%.1f,%.1f] (background from %.1f)", cr.VMin, cr.VMax, cr.VMinBackground)
}

// Buffers holds the intermediate images; they are freshly allocated and
// sized to the view.
type Buffers struct {
	Background  *emath.Image
	Highlighted *emath.Image
}

// ExtractBuffers copies the overlap of the survey and the selected
// sub-image into new buffers covering the view. Fails if there is
// nothing non-zero to show.
func ExtractBuffers(in Input, opt Options) (Buffers, error) {
	buf := Buffers{
		Background:  emath.NewImage(in.View, in.Survey.Scale),
		Highlighted: emath.NewImage(in.View, in.Survey.Scale),
	}

	if !opt.HideBackground {
		buf.Background.CopyFrom(in.Survey)
	}
	if !opt.HideSelected && in.Selected != nil {
		buf.Highlighted.CopyFrom(in.Selected)
	}

	if buf.Highlighted.Pixels.CountNonZero() == 0 {
		if opt.HideBackground || buf.Background.Pixels.CountNonZero() == 0 {
			return buf, fmt.Errorf("no non-zero pixel values in %s: %w", in.View, ErrEmptyView)
		}
	}
	return buf, nil
}

// ComputeClipRange picks [vmin,vmax]. vmax is a percentile of the non-zero
// selected pixels, or of the full survey when too few pixels are selected
// (a warning is returned then). vmin sits at a fraction of the sky noise.
func ComputeClipRange(in Input, opt Options) (ClipRange, []string, error) {
	warnings := []string{}
	cr := ClipRange{}

	zscalePixels := &in.Survey.Pixels
	if in.Selected != nil {
		if area := in.Selected.Area(); area < MinZScalePixels {
			warnings = append(warnings,
				fmt.Sprintf("using full image for z-scaling since only %d pixel(s) selected", area))
		} else {
			zscalePixels = &in.Selected.Pixels
			cr.FromSelected = true
		}
	}

	nonZero := zscalePixels.NonZeroValues()
	if len(nonZero) == 0 {
		return cr, warnings, fmt.Errorf("no non-zero pixels to z-scale: %w", ErrEmptyView)
	}
	cr.VMax = emath.Percentile(nonZero, opt.ClipHiPercentile)

	noise := math.Sqrt(opt.MeanSkyLevel)
	cr.VMin = opt.ClipLoNoiseFraction * noise
	cr.VMinBackground = cr.VMin
	if opt.NoiseAdded {
		cr.VMinBackground = opt.ClipNoise * noise
	}

	if !(cr.VMax > cr.VMin) || !(cr.VMax > cr.VMinBackground) {
		return cr, warnings, fmt.Errorf("clip range %s is empty: %w", cr, ErrEmptyView)
	}
	return cr, warnings, nil
}

// ZScale applies the clip-normalize-sqrt stretch to every pixel, into a new grid.
func ZScale(img *emath.Image, vmin, vmax float64) emath.FloatGrid {
	z := img.Pixels.NewFromThis()
	for y:=0; y<z.Dy(); y++ {
		for x:=0; x<z.Dx(); x++ {
			z.Set(x, y, float32(emath.SqrtStretch(float64(img.Pixels.Get(x, y)), vmin, vmax)))
		}
	}
	return z
}

// Render does the whole thing: extract, clip, stretch, colormap and blend.
func Render(in Input, opt Options) (*Composite, []string, error) {
	if opt.Colormap == nil {
		return nil, nil, fmt.Errorf("composite: no colormap")
	}

	buf, err := ExtractBuffers(in, opt)
	if err != nil {
		return nil, nil, err
	}

	cr, warnings, err := ComputeClipRange(in, opt)
	if err != nil {
		return nil, warnings, err
	}

	highlightedZ := ZScale(buf.Highlighted, cr.VMin, cr.VMax)
	backgroundZ  := ZScale(buf.Background, cr.VMinBackground, cr.VMax)

	c := NewComposite(in.View)
	c.Clip = cr
	for y:=0; y<c.Height; y++ {
		for x:=0; x<c.Width; x++ {
			bg := opt.Colormap.Map(float64(backgroundZ.Get(x, y)))
			if opt.Highlight != nil {
				bg = bg.AlphaBlend(*opt.Highlight, float64(highlightedZ.Get(x, y)))
			}
			c.Set(x, y, bg)
		}
	}
	c.HighlightedZ = highlightedZ

	return c, warnings, nil
}
