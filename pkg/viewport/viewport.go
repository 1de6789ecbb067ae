package viewport

import(
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abworrall/skyview/pkg/emath"
)

var(
	ErrInvalidRegion = errors.New("invalid region")
	ErrViewTooLarge  = errors.New("view too large")
)

// A Region is a physical rectangle in arcsecs, relative to the image center.
type Region struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (r Region)String() string {
	return fmt.Sprintf("[%.2f,%.2f,%.2f,%.2f]", r.XMin, r.XMax, r.YMin, r.YMax)
}

// ParseRegion parses the literal syntax `[xmin,xmax,ymin,ymax]`.
func ParseRegion(s string) (Region, error) {
	r := Region{}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return r, fmt.Errorf("region %q: not bracketed: %w", s, ErrInvalidRegion)
	}

	tokens := strings.Split(s[1:len(s)-1], ",")
	if len(tokens) != 4 {
		return r, fmt.Errorf("region %q: want 4 values, got %d: %w", s, len(tokens), ErrInvalidRegion)
	}

	vals := [4]float64{}
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return r, fmt.Errorf("region %q: bad value %q: %w", s, tok, ErrInvalidRegion)
		}
		vals[i] = v
	}

	r = Region{XMin:vals[0], XMax:vals[1], YMin:vals[2], YMax:vals[3]}
	if r.XMin >= r.XMax || r.YMin >= r.YMax {
		return r, fmt.Errorf("region %q: min must be less than max: %w", s, ErrInvalidRegion)
	}
	return r, nil
}

// Geometry is what the resolver needs to know about the survey.
type Geometry struct {
	PixelScale  float64
	ImageWidth  int
	ImageHeight int
}

// Full is the survey image's pixel bounds.
func (g Geometry)Full() emath.Bounds { return emath.NewBounds(0, 0, g.ImageWidth, g.ImageHeight) }

// ToPixelX and ToPixelY map an arcsec offset from the image center to
// floating-point pixels relative to the image's bottom-left corner.
func (g Geometry)ToPixelX(x float64) float64 { return x/g.PixelScale + 0.5*float64(g.ImageWidth) }
func (g Geometry)ToPixelY(y float64) float64 { return y/g.PixelScale + 0.5*float64(g.ImageHeight) }

// ToArcsecX and ToArcsecY are the inverse maps.
func (g Geometry)ToArcsecX(x float64) float64 { return (x - 0.5*float64(g.ImageWidth)) * g.PixelScale }
func (g Geometry)ToArcsecY(y float64) float64 { return (y - 0.5*float64(g.ImageHeight)) * g.PixelScale }

// Extent is a floating-point rectangle in display coords; it is only
// used for placing things, never for indexing arrays.
type Extent struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (e Extent)Width() float64  { return e.XMax - e.XMin }
func (e Extent)Height() float64 { return e.YMax - e.YMin }

func (e Extent)String() string {
	return fmt.Sprintf("[%.2f,%.2f,%.2f,%.2f]", e.XMin, e.XMax, e.YMin, e.YMax)
}

// ExtentOf covers every pixel in the bounds: the max edges get +1.
func ExtentOf(b emath.Bounds) Extent {
	return Extent{
		XMin: float64(b.XMin), XMax: float64(b.XMax + 1),
		YMin: float64(b.YMin), YMax: float64(b.YMax + 1),
	}
}

// Source says which policy produced a viewport.
type Source string

const(
	FromRegion    Source = "region"
	FromSelection Source = "crop"
	FromSurvey    Source = "full"
)

// A Viewport is the resolved area to render. Bounds are the integer pixels
// to extract; Extent is where those pixels land in display coords; Window
// is the area the display shows (the requested region for an explicit
// region, otherwise the same as Extent).
type Viewport struct {
	Bounds emath.Bounds
	Extent Extent
	Window Extent
	Source Source
}

func (v Viewport)String() string {
	return fmt.Sprintf("Viewport[%s, pixels %s, window %s]", v.Source, v.Bounds, v.Window)
}

// Request says how to pick the viewport, and how big it may get.
type Request struct {
	Region        *Region   // explicit region; wins over Crop
	Crop          bool      // crop to the selected objects, if any
	Magnification float64   // 0 means 1
	MaxViewSize   int       // max pixel dimension after magnification; 0 means unlimited
}

// Resolve picks the viewport. `selected` is the bounds of the selected
// objects' sub-image, if there is one.
func Resolve(g Geometry, req Request, selected *emath.Bounds) (Viewport, error) {
	v := Viewport{}

	switch {
	case req.Region != nil:
		r := *req.Region
		if r.XMin >= r.XMax || r.YMin >= r.YMax {
			return v, fmt.Errorf("region %s: %w", r, ErrInvalidRegion)
		}
		v.Window = Extent{
			XMin: g.ToPixelX(r.XMin), XMax: g.ToPixelX(r.XMax),
			YMin: g.ToPixelY(r.YMin), YMax: g.ToPixelY(r.YMax),
		}
		v.Bounds = CoveringBounds(v.Window)
		v.Extent = ExtentOf(v.Bounds)
		v.Source = FromRegion

	case req.Crop && selected != nil && selected.Defined():
		v.Bounds = *selected
		v.Extent = ExtentOf(v.Bounds)
		v.Window = v.Extent
		v.Source = FromSelection

	default:
		v.Bounds = g.Full()
		v.Extent = ExtentOf(v.Bounds)
		v.Window = v.Extent
		v.Source = FromSurvey
	}

	mag := req.Magnification
	if mag == 0 {
		mag = 1
	}
	w, h := v.Window.Width()*mag, v.Window.Height()*mag
	if req.MaxViewSize > 0 && (w > float64(req.MaxViewSize) || h > float64(req.MaxViewSize)) {
		return v, fmt.Errorf("requested view dimensions %d x %d exceed %d: %w",
			int(w), int(h), req.MaxViewSize, ErrViewTooLarge)
	}

	return v, nil
}

// CoveringBounds returns the integer pixels that fully cover the
// floating-point extent: floor of the min, ceil of the max less one.
func CoveringBounds(e Extent) emath.Bounds {
	return emath.Bounds{
		XMin: int(math.Floor(e.XMin)), XMax: int(math.Ceil(e.XMax)) - 1,
		YMin: int(math.Floor(e.YMin)), YMax: int(math.Ceil(e.YMax)) - 1,
	}
}

// Physical returns the window in arcsecs relative to the image center.
func (v Viewport)Physical(g Geometry) Region {
	return Region{
		XMin: g.ToArcsecX(v.Window.XMin), XMax: g.ToArcsecX(v.Window.XMax),
		YMin: g.ToArcsecY(v.Window.YMin), YMax: g.ToArcsecY(v.Window.YMax),
	}
}
