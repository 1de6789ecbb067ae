package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A FloatGrid is a grid of float32 flux values. Row 0 is the bottom
// row of the image (the smallest y), so grids line up with the lower-left
// origin used by the display coordinates.
type FloatGrid struct {
	stride int
	values []float32
}

func NewFloatGrid(w, h int) FloatGrid {
	if w < 0 { w = 0 }
	if h < 0 { h = 0 }
	return FloatGrid{
		stride: w,
		values: make([]float32, w*h),
	}
}

// NewFloatGridFromValues wraps `vals`, which must hold w*h values in
// row-major order. The slice is not copied.
func NewFloatGridFromValues(w, h int, vals []float32) (FloatGrid, error) {
	if w < 0 || h < 0 || len(vals) != w*h {
		return FloatGrid{}, fmt.Errorf("grid %dx%d needs %d values, got %d", w, h, w*h, len(vals))
	}
	return FloatGrid{stride: w, values: vals}, nil
}

func (g1 *FloatGrid)NewFromThis() FloatGrid   { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid)Set(x, y int, v float32)  { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float32     { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                  { return fg.stride }
func (fg *FloatGrid)Len() int                 { return len(fg.values) }

func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 { return 0 }
	return len(fg.values) / fg.stride
}

func (g1 *FloatGrid)Copy() *FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values:make([]float32, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// Values returns a copy of the raw row-major values.
func (fg *FloatGrid)Values() []float32 {
	out := make([]float32, len(fg.values))
	copy(out, fg.values)
	return out
}

func (fg *FloatGrid)CountNonZero() int {
	n := 0
	for _, v := range fg.values {
		if v != 0 { n++ }
	}
	return n
}

// NonZeroValues returns the non-zero values, widened to float64.
func (fg *FloatGrid)NonZeroValues() []float64 {
	vals := []float64{}
	for _, v := range fg.values {
		if v != 0 {
			vals = append(vals, float64(v))
		}
	}
	return vals
}

func (fg *FloatGrid)Stats() string {
	min := math.MaxFloat64
	max := -1.0  * min

	for i:=0 ; i<len(fg.values) ; i++ {
		v := float64(fg.values[i])
		if v > max { max = v }
		if v < min { min = v }
	}
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision. Handy when debugging stamps.
func (fg *FloatGrid)ToImg(title, filename string) error {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for i:=0; i<len(fg.values); i++ {
		v := float64(fg.values[i])
		if v > max { max = v }
		if v < min { min = v }
	}
	if max <= min { max = min + 1 }

	h := fg.Dy()
	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), h}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<h; y++ {
			lum := float64(fg.Get(x,y))
			gray := uint16(GammaExpand_F64((lum - min) / (max - min)) * 65535.0)
			img.Set(x, h-1-y, color.RGBA64{gray, gray, gray, 0xFFFF}) // flip, row 0 is the bottom
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,0,0)
	dc.DrawString(title, 4, 14)
	return dc.SavePNG(filename)
}
