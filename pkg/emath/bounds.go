package emath

import(
	"fmt"
)

// Bounds is an integer pixel rectangle with inclusive limits, so a
// single pixel at (3,4) is Bounds{3,3,4,4}. The zero-area value is
// reported by Defined() == false.
type Bounds struct {
	XMin, XMax int
	YMin, YMax int
}

// NewBounds returns bounds starting at (x0,y0) covering w x h pixels.
func NewBounds(x0, y0, w, h int) Bounds {
	return Bounds{XMin:x0, XMax:x0+w-1, YMin:y0, YMax:y0+h-1}
}

func (b Bounds)Defined() bool { return b.XMax >= b.XMin && b.YMax >= b.YMin }

func (b Bounds)Width() int {
	if !b.Defined() { return 0 }
	return b.XMax - b.XMin + 1
}

func (b Bounds)Height() int {
	if !b.Defined() { return 0 }
	return b.YMax - b.YMin + 1
}

func (b Bounds)Area() int { return b.Width() * b.Height() }

func (b Bounds)Contains(x, y int) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// Intersect returns the overlap of the two bounds; it may be undefined.
func (b Bounds)Intersect(o Bounds) Bounds {
	r := Bounds{
		XMin: maxInt(b.XMin, o.XMin), XMax: minInt(b.XMax, o.XMax),
		YMin: maxInt(b.YMin, o.YMin), YMax: minInt(b.YMax, o.YMax),
	}
	if !r.Defined() {
		return Bounds{XMin:1, XMax:0, YMin:1, YMax:0}
	}
	return r
}

// Union returns the smallest bounds containing both; undefined inputs are ignored.
func (b Bounds)Union(o Bounds) Bounds {
	if !b.Defined() { return o }
	if !o.Defined() { return b }
	return Bounds{
		XMin: minInt(b.XMin, o.XMin), XMax: maxInt(b.XMax, o.XMax),
		YMin: minInt(b.YMin, o.YMin), YMax: maxInt(b.YMax, o.YMax),
	}
}

func (b Bounds)String() string {
	return fmt.Sprintf("Bounds[x:%d..%d, y:%d..%d]", b.XMin, b.XMax, b.YMin, b.YMax)
}

func minInt(a, b int) int { if a < b { return a }; return b }
func maxInt(a, b int) int { if a > b { return a }; return b }
