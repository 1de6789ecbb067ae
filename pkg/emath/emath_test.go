package emath

import(
	"math"
	"testing"
)

func TestPercentileMatchesNumpy(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		q        float64
		expected float64
	}{
		{0, 1},
		{50, 5.5},
		{90, 9.1},
		{100, 10},
		{25, 3.25},
	}

	for _, tt := range tests {
		if got := Percentile(vals, tt.q); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Percentile(q=%v) = %v, expected %v", tt.q, got, tt.expected)
		}
	}
	if !math.IsNaN(Percentile(nil, 50)) {
		t.Errorf("expected NaN for empty input")
	}
}

func TestPercentileDoesNotReorderInput(t *testing.T) {
	vals := []float64{3, 1, 2}
	Percentile(vals, 50)
	if vals[0] != 3 || vals[1] != 1 || vals[2] != 2 {
		t.Fatalf("input reordered: %v", vals)
	}
}

func TestSqrtStretch(t *testing.T) {
	if got := SqrtStretch(52.0, 2.0, 102.0); math.Abs(got-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("SqrtStretch(52) = %v, expected %v", got, math.Sqrt(0.5))
	}
	if got := SqrtStretch(-10, 2, 102); got != 0 {
		t.Errorf("below vmin should clip to 0, got %v", got)
	}
	if got := SqrtStretch(1e6, 2, 102); got != 1 {
		t.Errorf("above vmax should clip to 1, got %v", got)
	}
}

func TestBoundsIntersectAndUnion(t *testing.T) {
	a := Bounds{0, 9, 0, 9}
	b := Bounds{5, 14, -3, 2}

	i := a.Intersect(b)
	if i != (Bounds{5, 9, 0, 2}) {
		t.Errorf("intersect = %s", i)
	}
	if i.Area() != 15 {
		t.Errorf("area = %d, expected 15", i.Area())
	}

	none := a.Intersect(Bounds{20, 30, 20, 30})
	if none.Defined() || none.Area() != 0 {
		t.Errorf("expected empty intersection, got %s", none)
	}

	u := a.Union(b)
	if u != (Bounds{0, 14, -3, 9}) {
		t.Errorf("union = %s", u)
	}
	if got := (Bounds{XMin:1, XMax:0, YMin:1, YMax:0}).Union(a); got != a {
		t.Errorf("union with undefined = %s", got)
	}
}

func TestImageCopyFromOverlapOnly(t *testing.T) {
	src := NewImage(NewBounds(0, 0, 4, 4), 0.2)
	for y:=0; y<4; y++ {
		for x:=0; x<4; x++ {
			src.Set(x, y, float32(10*y + x))
		}
	}

	dst := NewImage(Bounds{2, 5, 2, 5}, 0.2)
	if n := dst.CopyFrom(src); n != 4 {
		t.Fatalf("copied %d pixels, expected 4", n)
	}
	if dst.At(3, 3) != 33 || dst.At(2, 2) != 22 || dst.At(4, 4) != 0 {
		t.Errorf("unexpected copy: %v %v %v", dst.At(3, 3), dst.At(2, 2), dst.At(4, 4))
	}
	if src.At(3, 3) != 33 {
		t.Errorf("source modified")
	}
}

func TestDisplayToCanvasFlipsY(t *testing.T) {
	m := DisplayToCanvas(10, 50, 2)

	x, y := m.Apply(10, 50)
	if x != 0 || y != 0 {
		t.Errorf("top-left maps to (%v,%v)", x, y)
	}
	x, y = m.Apply(15, 40)
	if x != 10 || y != 20 {
		t.Errorf("(15,40) maps to (%v,%v), expected (10,20)", x, y)
	}
}

func TestAlphaBlend(t *testing.T) {
	bg := Vec3{0.2, 0.2, 0.2}
	got := bg.AlphaBlend(Vec3{1, 0, 0}, 0.5)
	want := Vec3{0.6, 0.1, 0.1}
	for i:=0; i<3; i++ {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("blend = %s, expected %s", got, want)
		}
	}
}
