package emath

import "fmt"

// An Image is a FloatGrid placed at some pixel bounds, with a pixel
// scale in arcsecs/pixel. Grid dimensions always match the bounds.
type Image struct {
	Bounds
	Scale  float64
	Pixels FloatGrid
}

// NewImage allocates a zero-filled image covering `b`.
func NewImage(b Bounds, scale float64) *Image {
	return &Image{
		Bounds: b,
		Scale:  scale,
		Pixels: NewFloatGrid(b.Width(), b.Height()),
	}
}

// NewImageFromValues wraps row-major values (bottom row first) as an image covering `b`.
func NewImageFromValues(b Bounds, scale float64, vals []float32) (*Image, error) {
	g, err := NewFloatGridFromValues(b.Width(), b.Height(), vals)
	if err != nil {
		return nil, fmt.Errorf("image %s: %v", b, err)
	}
	return &Image{Bounds:b, Scale:scale, Pixels:g}, nil
}

// At and Set use absolute pixel coords.
func (im *Image)At(x, y int) float32     { return im.Pixels.Get(x-im.XMin, y-im.YMin) }
func (im *Image)Set(x, y int, v float32) { im.Pixels.Set(x-im.XMin, y-im.YMin, v) }

func (im *Image)Copy() *Image {
	return &Image{Bounds:im.Bounds, Scale:im.Scale, Pixels:*im.Pixels.Copy()}
}

// CopyFrom copies the overlap of `src` into this image, returning the
// number of pixels copied. Neither image's bounds change.
func (im *Image)CopyFrom(src *Image) int {
	overlap := im.Bounds.Intersect(src.Bounds)
	if overlap.Area() == 0 {
		return 0
	}
	for y:=overlap.YMin; y<=overlap.YMax; y++ {
		for x:=overlap.XMin; x<=overlap.XMax; x++ {
			im.Set(x, y, src.At(x, y))
		}
	}
	return overlap.Area()
}

// AddFrom sums the overlap of `src` into this image.
func (im *Image)AddFrom(src *Image) {
	overlap := im.Bounds.Intersect(src.Bounds)
	for y:=overlap.YMin; y<=overlap.YMax; y++ {
		for x:=overlap.XMin; x<=overlap.XMax; x++ {
			im.Set(x, y, im.At(x, y) + src.At(x, y))
		}
	}
}

func (im Image)String() string {
	return fmt.Sprintf("Image{%s, %.3f\"/pix, %s}", im.Bounds, im.Scale, im.Pixels.Stats())
}
