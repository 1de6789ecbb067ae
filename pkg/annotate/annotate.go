// Package annotate turns the selected objects (and any detections
// matched to them) into a list of things to draw. Nothing gets drawn
// here; see pkg/render.
package annotate

import(
	"fmt"
	"math"

	"github.com/abworrall/skyview/pkg/emath"
	"github.com/abworrall/skyview/pkg/match"
	"github.com/abworrall/skyview/pkg/results"
	"github.com/abworrall/skyview/pkg/viewport"
)

type Kind int

const(
	Marker Kind = iota
	Text
	Ellipse
)

func (k Kind)String() string {
	switch k {
	case Marker:  return "marker"
	case Text:    return "text"
	case Ellipse: return "ellipse"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sizes are in points, so they look the same at any dpi or magnification.
const(
	MarkerSize      = 24.0
	MarkerLineWidth = 2.0
	TextOffset      = 4.0
	OutlineWidth    = 2.0
	EllipseLineWidth = 1.0
)

// A Directive is one thing to draw. X,Y are display coords (pixel units,
// origin at the bottom-left of the survey image).
type Directive struct {
	Kind       Kind
	X, Y       float64
	Color      emath.Vec3
	LineWidth  float64      // points

	Glyph      string       // Marker: "+" or "x"
	Size       float64      // Marker size, or Text font size, in points

	Text       string
	Offset     [2]float64   // Text: offset from X,Y in points
	Outline   *emath.Vec3   // Text: nil for no outline

	Width      float64      // Ellipse: full axes, in display pixels
	Height     float64
	Angle      float64      // Ellipse: degrees anticlockwise from the x axis
}

func (d Directive)String() string {
	switch d.Kind {
	case Marker:  return fmt.Sprintf("marker '%s' at (%.2f,%.2f) %s", d.Glyph, d.X, d.Y, d.Color)
	case Text:    return fmt.Sprintf("text %q at (%.2f,%.2f) %s", d.Text, d.X, d.Y, d.Color)
	case Ellipse: return fmt.Sprintf("ellipse %.2fx%.2f@%.1f at (%.2f,%.2f) %s", d.Width, d.Height, d.Angle, d.X, d.Y, d.Color)
	}
	return d.Kind.String()
}

// Options say what to annotate, and how it should look.
type Options struct {
	Crosshair      bool
	Info           string       // format for object text; empty for none
	MatchInfo      string       // format for matched detection text; empty for none
	DrawMoments    bool         // second-moment ellipses

	CrosshairColor emath.Vec3
	MatchColor     emath.Vec3
	EllipseColor   emath.Vec3
	InfoColor      emath.Vec3
	OutlineColor  *emath.Vec3
	InfoSize       float64      // points
}

// Input is the state annotations are drawn from. Catalog may be nil; if
// not, the table's match column indexes into it.
type Input struct {
	Geometry viewport.Geometry
	Table    results.ObjectTable
	Selected []int
	Catalog *match.Catalog
}

// Annotate builds the directives for every selected object, in table
// order. Ellipses come last, so they sit on top of markers and text. Any
// format error aborts the whole thing. Match ellipses for detections
// without shape fields are skipped, with a warning.
func Annotate(in Input, opt Options) ([]Directive, []string, error) {
	out := []Directive{}
	warnings := []string{}
	ellipses := []Directive{}
	matchEllipses := []Directive{}

	info, matchInfo := Unescape(opt.Info), Unescape(opt.MatchInfo)

	for _, row := range in.Selected {
		if row < 0 || row >= len(in.Table) {
			return nil, warnings, fmt.Errorf("annotate: selected row %d not in table of %d", row, len(in.Table))
		}
		obj := in.Table[row]
		x, y := in.Geometry.ToPixelX(obj.Dx), in.Geometry.ToPixelY(obj.Dy)

		var det match.Detection
		if in.Catalog != nil && obj.Match >= 0 {
			if obj.Match >= len(in.Catalog.Rows) {
				return nil, warnings, fmt.Errorf("annotate: object %d matched to row %d, catalog has %d",
					obj.DbID, obj.Match, len(in.Catalog.Rows))
			}
			det = in.Catalog.Rows[obj.Match]
		}
		mx, my := det.Position()

		if opt.Crosshair {
			out = append(out, marker("+", x, y, opt.CrosshairColor))
			if det != nil {
				out = append(out, marker("x", mx, my, opt.MatchColor))
			}
		}

		if info != "" {
			s, err := Format(info, obj)
			if err != nil {
				return nil, warnings, fmt.Errorf("info for object %d: %w", obj.DbID, err)
			}
			out = append(out, text(s, x, y, opt))
		}
		if det != nil && matchInfo != "" {
			s, err := Format(matchInfo, det)
			if err != nil {
				return nil, warnings, fmt.Errorf("match info for object %d: %w", obj.DbID, err)
			}
			out = append(out, text(s, mx, my, opt))
		}

		if opt.DrawMoments {
			scale := in.Geometry.PixelScale
			ellipses = append(ellipses, ellipse(x, y, 2*obj.A/scale, 2*obj.B/scale,
				obj.Beta*180/math.Pi, opt.EllipseColor))

			if det != nil {
				a, hasA := det["A_IMAGE"]
				b, hasB := det["B_IMAGE"]
				theta, hasTheta := det["THETA_IMAGE"]
				if hasA && hasB && hasTheta {
					matchEllipses = append(matchEllipses, ellipse(mx, my, 2*a, 2*b, theta, opt.MatchColor))
				} else {
					warnings = append(warnings, fmt.Sprintf("no shape fields for detection %d, match ellipse omitted", obj.Match))
				}
			}
		}
	}

	out = append(out, ellipses...)
	return append(out, matchEllipses...), warnings, nil
}

func marker(glyph string, x, y float64, c emath.Vec3) Directive {
	return Directive{Kind:Marker, Glyph:glyph, X:x, Y:y, Color:c, Size:MarkerSize, LineWidth:MarkerLineWidth}
}

func text(s string, x, y float64, opt Options) Directive {
	return Directive{
		Kind:      Text,
		Text:      s,
		X:         x,
		Y:         y,
		Offset:    [2]float64{TextOffset, TextOffset},
		Color:     opt.InfoColor,
		Outline:   opt.OutlineColor,
		Size:      opt.InfoSize,
		LineWidth: OutlineWidth,
	}
}

func ellipse(x, y, w, h, angle float64, c emath.Vec3) Directive {
	return Directive{Kind:Ellipse, X:x, Y:y, Width:w, Height:h, Angle:angle, Color:c, LineWidth:EllipseLineWidth}
}
