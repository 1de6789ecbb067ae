package results

import(
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/abworrall/skyview/pkg/emath"
	"github.com/abworrall/skyview/pkg/selection"
)

var ErrNoStampsAvailable = errors.New("no stamps available")

// A Survey describes the simulated exposure.
type Survey struct {
	Name          string
	PixelScale    float64       // arcsecs per pixel
	ImageWidth    int
	ImageHeight   int
	MeanSkyLevel  float64       // electrons per pixel
	Image        *emath.Image   // bounds are [0,width-1] x [0,height-1]
}

func (s Survey)Description() string {
	return fmt.Sprintf("%s: %dx%d pixels at %.3f arcsec/pixel (%.2fx%.2f arcmin), mean sky %.1f elec/pixel",
		s.Name, s.ImageWidth, s.ImageHeight, s.PixelScale,
		float64(s.ImageWidth)*s.PixelScale/60.0, float64(s.ImageHeight)*s.PixelScale/60.0, s.MeanSkyLevel)
}

// Results is what the simulation produced: the survey image, the object
// table and (optionally) per-object stamps, indexed by table row.
type Results struct {
	Survey
	Table       ObjectTable
	Stamps      map[int]*emath.Image  // keyed by table row; empty if not retained

	NoiseSeed  *int64  // set on results made by WithNoise
}

func (r *Results)NumObjects() int { return len(r.Table) }
func (r *Results)HasStamps() bool { return len(r.Stamps) > 0 }

// Select evaluates cuts against the object table; see selection.Evaluate.
func (r *Results)Select(mode selection.Mode, cuts ...string) ([]bool, error) {
	return selection.Evaluate(r.Table, mode, cuts...)
}

// SelectIndices is Select, but returns the selected row indices.
func (r *Results)SelectIndices(mode selection.Mode, cuts ...string) ([]int, error) {
	mask, err := r.Select(mode, cuts...)
	if err != nil {
		return nil, err
	}
	return selection.Indices(mask), nil
}

// GetSubimage sums the stamps of the given objects into a new image
// that just covers them. Returns nil if there is nothing to sum.
func (r *Results)GetSubimage(indices []int) (*emath.Image, error) {
	if len(indices) == 0 {
		return nil, nil
	}
	if !r.HasStamps() {
		return nil, fmt.Errorf("subimage of %d objects: %w", len(indices), ErrNoStampsAvailable)
	}

	bounds := emath.Bounds{XMin:1, XMax:0, YMin:1, YMax:0}
	for _, idx := range indices {
		if stamp, exists := r.Stamps[idx]; exists {
			bounds = bounds.Union(stamp.Bounds)
		}
	}
	if !bounds.Defined() {
		return nil, nil
	}

	img := emath.NewImage(bounds, r.PixelScale)
	for _, idx := range indices {
		if stamp, exists := r.Stamps[idx]; exists {
			img.AddFrom(stamp)
		}
	}
	return img, nil
}

// WithNoise returns a copy of the results whose survey image has Poisson
// noise from the sky plus source flux, so each pixel becomes
// Poisson(pixel+sky)-sky. The same seed always gives the same noise. r is
// not modified; the table and stamps are shared with the copy.
func (r *Results)WithNoise(seed int64) *Results {
	src := rand.NewSource(uint64(seed))
	noisy := r.Survey.Image.Copy()

	for y:=noisy.YMin; y<=noisy.YMax; y++ {
		for x:=noisy.XMin; x<=noisy.XMax; x++ {
			mean := float64(noisy.At(x, y)) + r.MeanSkyLevel
			if mean <= 0 {
				noisy.Set(x, y, float32(-r.MeanSkyLevel))
				continue
			}
			p := distuv.Poisson{Lambda: mean, Src: src}
			noisy.Set(x, y, float32(p.Rand() - r.MeanSkyLevel))
		}
	}

	out := *r
	out.Survey.Image = noisy
	out.NoiseSeed = &seed
	return &out
}

func (r *Results)NoiseAdded() bool { return r.NoiseSeed != nil }

// SkyNoise is the Poisson noise floor of the sky, in electrons.
func (s Survey)SkyNoise() float64 { return math.Sqrt(s.MeanSkyLevel) }
