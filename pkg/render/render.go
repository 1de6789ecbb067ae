// Package render draws a composite and its annotations onto a canvas, and
// writes the result out.
package render

import(
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/tiff"

	"github.com/abworrall/skyview/pkg/annotate"
	"github.com/abworrall/skyview/pkg/composite"
	"github.com/abworrall/skyview/pkg/emath"
	"github.com/abworrall/skyview/pkg/viewport"
)

type Options struct {
	Magnification float64   // canvas pixels per display pixel
	DPI           float64   // canvas pixels per inch; sets how big a point is
}

// A Canvas is the magnified view window, with y growing downwards.
type Canvas struct {
	Viewport   viewport.Viewport
	Options    Options

	dc        *gg.Context
	img       *image.RGBA
	toCanvas   emath.Aff3
	font      *truetype.Font
	faces      map[float64]font.Face
	composite *composite.Composite
}

// New creates a blank (black) canvas covering the viewport's window.
func New(v viewport.Viewport, opt Options) (*Canvas, error) {
	if opt.Magnification <= 0 {
		opt.Magnification = 1
	}
	if opt.DPI <= 0 {
		return nil, fmt.Errorf("render: bad dpi %v", opt.DPI)
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %v", err)
	}

	w := int(math.Round(v.Window.Width() * opt.Magnification))
	h := int(math.Round(v.Window.Height() * opt.Magnification))
	if w < 1 { w = 1 }
	if h < 1 { h = 1 }

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	return &Canvas{
		Viewport: v,
		Options:  opt,
		dc:       gg.NewContextForRGBA(img),
		img:      img,
		toCanvas: emath.DisplayToCanvas(v.Window.XMin, v.Window.YMax, opt.Magnification),
		font:     f,
		faces:    map[float64]font.Face{},
	}, nil
}

func (cv *Canvas)Width() int          { return cv.img.Bounds().Dx() }
func (cv *Canvas)Height() int         { return cv.img.Bounds().Dy() }
func (cv *Canvas)Image() *image.RGBA  { return cv.img }

// Points converts a size in points into canvas pixels.
func (cv *Canvas)Points(pt float64) float64 { return pt * cv.Options.DPI / 72.0 }

// ToCanvas maps display coords onto the canvas.
func (cv *Canvas)ToCanvas(x, y float64) (float64, float64) { return cv.toCanvas.Apply(x, y) }

// DrawComposite places the composite at the viewport's extent, magnified
// with nearest-neighbour so each display pixel stays a crisp block.
func (cv *Canvas)DrawComposite(c *composite.Composite) {
	// Composite image coords have y down from its top edge, YMax.
	e := cv.Viewport.Extent
	s2d := cv.toCanvas.Mult(emath.Aff3{1, 0, e.XMin,   0, -1, e.YMax})

	src := c.ToRGBA()
	draw.NearestNeighbor.Transform(cv.img, f64.Aff3(s2d), src, src.Bounds(), draw.Src, nil)
	cv.composite = c
}

func (cv *Canvas)face(size float64) font.Face {
	if f, exists := cv.faces[size]; exists {
		return f
	}
	f := truetype.NewFace(cv.font, &truetype.Options{
		Size:    size,
		DPI:     cv.Options.DPI,
		Hinting: font.HintingFull,
	})
	cv.faces[size] = f
	return f
}

func setColor(dc *gg.Context, v emath.Vec3) {
	dc.SetRGB(v[0], v[1], v[2])
}

// Draw renders one annotation.
func (cv *Canvas)Draw(d annotate.Directive) error {
	dc := cv.dc
	x, y := cv.ToCanvas(d.X, d.Y)

	switch d.Kind {
	case annotate.Marker:
		r := cv.Points(d.Size) / 2
		dc.SetLineWidth(cv.Points(d.LineWidth))
		setColor(dc, d.Color)
		switch d.Glyph {
		case "+":
			dc.DrawLine(x-r, y, x+r, y)
			dc.DrawLine(x, y-r, x, y+r)
		case "x":
			r /= math.Sqrt2
			dc.DrawLine(x-r, y-r, x+r, y+r)
			dc.DrawLine(x-r, y+r, x+r, y-r)
		default:
			return fmt.Errorf("render: unknown marker glyph '%s'", d.Glyph)
		}
		dc.Stroke()

	case annotate.Text:
		dc.SetFontFace(cv.face(d.Size))
		x += cv.Points(d.Offset[0])
		y -= cv.Points(d.Offset[1])

		// The last line sits on the baseline; earlier lines stack upwards.
		lines := strings.Split(d.Text, "\n")
		lineHeight := dc.FontHeight() * 1.2
		y -= lineHeight * float64(len(lines)-1)

		if d.Outline != nil {
			setColor(dc, *d.Outline)
			r := cv.Points(d.LineWidth) / 2
			for i:=0; i<8; i++ {
				theta := float64(i) * math.Pi / 4
				drawLines(dc, lines, x + r*math.Cos(theta), y + r*math.Sin(theta), lineHeight)
			}
		}
		setColor(dc, d.Color)
		drawLines(dc, lines, x, y, lineHeight)

	case annotate.Ellipse:
		mag := cv.Options.Magnification
		dc.Push()
		dc.RotateAbout(gg.Radians(-d.Angle), x, y)
		dc.DrawEllipse(x, y, d.Width/2*mag, d.Height/2*mag)
		dc.Pop()
		dc.SetLineWidth(cv.Points(d.LineWidth))
		setColor(dc, d.Color)
		dc.Stroke()

	default:
		return fmt.Errorf("render: unknown directive %s", d.Kind)
	}

	return nil
}

func drawLines(dc *gg.Context, lines []string, x, y, lineHeight float64) {
	for i, line := range lines {
		dc.DrawString(line, x, y + float64(i)*lineHeight)
	}
}

// Render draws the composite, then the annotations on top, in order.
func Render(v viewport.Viewport, c *composite.Composite, directives []annotate.Directive, opt Options) (*Canvas, error) {
	cv, err := New(v, opt)
	if err != nil {
		return nil, err
	}
	cv.DrawComposite(c)
	for _, d := range directives {
		if err := cv.Draw(d); err != nil {
			return nil, err
		}
	}
	return cv, nil
}

// Save writes the canvas as PNG or TIFF, depending on the extension. An
// .hdr file gets the unquantized composite instead, without annotations.
func (cv *Canvas)Save(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return cv.dc.SavePNG(filename)

	case ".tif", ".tiff":
		if writer, err := os.Create(filename); err != nil {
			return fmt.Errorf("Canvas.Save, open+w '%s': %v", filename, err)
		} else {
			defer writer.Close()
			return tiff.Encode(writer, cv.img, &tiff.Options{Compression: tiff.Deflate})
		}

	case ".hdr":
		if cv.composite == nil {
			return fmt.Errorf("Canvas.Save '%s': no composite drawn", filename)
		}
		return cv.composite.WriteToHDR(filename)
	}

	return fmt.Errorf("Canvas.Save '%s': unknown extension (want .png, .tif or .hdr)", filename)
}
