package emath

// Affine maps between display coords (pixels, origin bottom-left) and
// canvas coords (magnified, origin top-left), plus RGB triples.

import(
	"fmt"
	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully make this file redundant
)

// Use a local type so we can hang methods off it
type Aff3 f64.Aff3

// Cut-n-pasted from image@0.7.0/draw/scale:matMul
func (p Aff3)Mult(q Aff3) Aff3 {
	return Aff3{
		p[3*0+0]*q[3*0+0] + p[3*0+1]*q[3*1+0],
		p[3*0+0]*q[3*0+1] + p[3*0+1]*q[3*1+1],
		p[3*0+0]*q[3*0+2] + p[3*0+1]*q[3*1+2] + p[3*0+2],
		p[3*1+0]*q[3*0+0] + p[3*1+1]*q[3*1+0],
		p[3*1+0]*q[3*0+1] + p[3*1+1]*q[3*1+1],
		p[3*1+0]*q[3*0+2] + p[3*1+1]*q[3*1+2] + p[3*1+2],
	}
}

func Identity() Aff3 {
	return Aff3{1, 0, 0,   0, 1, 0}
}

func (m1 Aff3)Translate(tx, ty float64) Aff3 {
	return m1.Mult(Aff3{1, 0, tx,   0, 1, ty})
}

func (m1 Aff3)Scale(sx, sy float64) Aff3 {
	return m1.Mult(Aff3{sx, 0, 0,   0, sy, 0})
}

func (m Aff3)Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// DisplayToCanvas maps display coords inside the window [xmin,xmax]x[ymin,ymax]
// onto a canvas magnified by `mag`, flipping the y axis. Remember they
// compose back to front - rightmost operations performed first.
func DisplayToCanvas(xmin, ymax, mag float64) Aff3 {
	return Identity().Scale(mag, -mag).Translate(-xmin, -ymax)
}

// An RGB triple, each channel nominally in [0,1]
type Vec3 f64.Vec3

func (v Vec3)Scale(f float64) Vec3 { return Vec3{v[0]*f, v[1]*f, v[2]*f} }
func (v Vec3)Add(o Vec3) Vec3      { return Vec3{v[0]+o[0], v[1]+o[1], v[2]+o[2]} }

// AlphaBlend puts `fg` over `v` with opacity `alpha`.
// http://en.wikipedia.org/wiki/Alpha_compositing#Alpha_blending
func (v Vec3)AlphaBlend(fg Vec3, alpha float64) Vec3 {
	return fg.Scale(alpha).Add(v.Scale(1.0 - alpha))
}

func (v Vec3)String() string {
	return fmt.Sprintf("[%12.10f, %12.10f, %12.10f]", v[0], v[1], v[2])
}

func (v *Vec3)FloorAt(min float64) {
	if v[0] < min { v[0] = min }
	if v[1] < min { v[1] = min }
	if v[2] < min { v[2] = min }
}

func (v *Vec3)CeilingAt(max float64) {
	if v[0] > max { v[0] = max }
	if v[1] > max { v[1] = max }
	if v[2] > max { v[2] = max }
}
