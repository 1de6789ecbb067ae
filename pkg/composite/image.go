package composite

import(
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/skyview/pkg/emath"
)

// A Composite is the final RGB array over the view, each channel in
// [0,1]. Row 0 is the bottom row (ymin), as in the source images.
//
// It implements image.Image and hdr.Image; those interfaces have y
// growing downwards, so they see the rows flipped.
type Composite struct {
	View          emath.Bounds
	Width         int
	Height        int
	Pixels      []emath.Vec3

	Clip          ClipRange
	HighlightedZ  emath.FloatGrid  // the alpha channel used in blending
}

func NewComposite(view emath.Bounds) *Composite {
	return &Composite{
		View:   view,
		Width:  view.Width(),
		Height: view.Height(),
		Pixels: make([]emath.Vec3, view.Area()),
	}
}

// RGB and Set use view-local coords, with (0,0) the bottom-left pixel.
func (c *Composite)RGB(x, y int) emath.Vec3       { return c.Pixels[y*c.Width + x] }
func (c *Composite)Set(x, y int, v emath.Vec3)    { c.Pixels[y*c.Width + x] = v }

// Implement image.Image
func (c *Composite)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (c *Composite)Bounds() image.Rectangle       { return image.Rect(0, 0, c.Width, c.Height) }
func (c *Composite)At(x, y int) color.Color       { return c.HDRAt(x, y) }

// Implement hdr.Image
func (c *Composite)Size() int                     { return c.Width * c.Height }
func (c *Composite)HDRAt(x, y int) hdrcolor.Color {
	v := c.RGB(x, c.Height-1-y)
	return hdrcolor.RGB{R:v[0], G:v[1], B:v[2]}
}

func (c *Composite)String() string {
	return fmt.Sprintf("Composite{%s, %dx%d, clip %s}", c.View, c.Width, c.Height, c.Clip)
}

// ToRGBA converts to an 8-bit image, top row first.
func (c *Composite)ToRGBA() *image.RGBA {
	img := image.NewRGBA(c.Bounds())
	for y:=0; y<c.Height; y++ {
		for x:=0; x<c.Width; x++ {
			v := c.RGB(x, c.Height-1-y)
			v.FloorAt(0.0)
			v.CeilingAt(1.0)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(v[0]*255.0 + 0.5),
				G: uint8(v[1]*255.0 + 0.5),
				B: uint8(v[2]*255.0 + 0.5),
				A: 0xff,
			})
		}
	}
	return img
}

// WriteToHDR writes the unquantized composite as a Radiance RGBE file.
func (c *Composite)WriteToHDR(filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("Composite.WriteToHDR, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return rgbe.Encode(writer, c)
	}
}
