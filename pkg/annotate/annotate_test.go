package annotate

import(
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/abworrall/skyview/pkg/emath"
	"github.com/abworrall/skyview/pkg/match"
	"github.com/abworrall/skyview/pkg/results"
	"github.com/abworrall/skyview/pkg/viewport"
)

func TestFormat(t *testing.T) {
	obj := results.Object{DbID:42, GrpID:7, Dx:1.25, A:2, Match:-1, Extra:map[string]float64{"snr": 12.3125}}

	tests := []struct{
		Format string
		Want   string
	}{
		{"plain", "plain"},
		{"%(db_id)d", "42"},
		{"id=%(db_id)s grp=%(grp_id)i", "id=42 grp=7"},
		{"%(snr).1f", "12.3"},
		{"%(snr)8.2f|", "   12.31|"},
		{"%(dx)s", "1.25"},
		{"%(a)s", "2.0"},
		{"%(snr)d", "12"},
		{"%(db_id)x", "2a"},
		{"%(dx)e", "1.250000e+00"},
		{"100%% of %(match)d", "100% of -1"},
	}

	for i, test := range tests {
		got, err := Format(test.Format, obj)
		if err != nil {
			t.Errorf("[%d] %q: err %v", i, test.Format, err)
		} else if got != test.Want {
			t.Errorf("[%d] %q: got %q, expected %q", i, test.Format, got, test.Want)
		}
	}
}

func TestFormatLargeIntegers(t *testing.T) {
	// 2^53+1 can't be held in a float64
	obj := results.Object{DbID:9007199254740993, GrpID:-9007199254740993}
	tests := []struct{
		Format string
		Want   string
	}{
		{"%(db_id)d", "9007199254740993"},
		{"%(db_id)s", "9007199254740993"},
		{"%(db_id)x", "20000000000001"},
		{"%(grp_id)i", "-9007199254740993"},
	}
	for i, test := range tests {
		if got, err := Format(test.Format, obj); err != nil || got != test.Want {
			t.Errorf("[%d] %q: got %q (err %v), expected %q", i, test.Format, got, err, test.Want)
		}
	}
}

func TestFormatErrors(t *testing.T) {
	obj := results.Object{DbID:1}
	for _, f := range []string{"%(nope)d", "%d", "%(db_id)", "%(db_id)q", "trailing %"} {
		if _, err := Format(f, obj); !errors.Is(err, ErrAnnotationFormat) {
			t.Errorf("%q: expected ErrAnnotationFormat, got %v", f, err)
		}
	}
}

func TestUnescape(t *testing.T) {
	if got := Unescape(`a\nb\tc\\n`); got != "a\nb\tc\\n" {
		t.Errorf("got %q", got)
	}
}

func testInput() Input {
	return Input{
		Geometry: viewport.Geometry{PixelScale:0.2, ImageWidth:100, ImageHeight:100},
		Table: results.ObjectTable{
			{DbID:1, Dx:1, Dy:-1, A:0.4, B:0.2, Beta:math.Pi/2, Match:0},
			{DbID:2, Dx:0, Dy:0, A:0.6, B:0.6, Match:-1},
			{DbID:3, Dx:4, Dy:4, A:0.2, B:0.1, Match:1},
		},
		Selected: []int{0, 2},
		Catalog: &match.Catalog{Rows: []match.Detection{
			{"X_IMAGE": 55.5, "Y_IMAGE": 45.5, "A_IMAGE": 2, "B_IMAGE": 1, "THETA_IMAGE": 80, "FLUX": 300},
			{"X_IMAGE": 70.5, "Y_IMAGE": 70.5, "FLUX": 100},
		}},
	}
}

func testOptions() Options {
	return Options{
		Crosshair:      true,
		CrosshairColor: emath.Vec3{0, 1, 0},
		MatchColor:     emath.Vec3{0, 0, 0},
		EllipseColor:   emath.Vec3{0, 0, 1},
		InfoColor:      emath.Vec3{1, 1, 1},
		InfoSize:       12,
	}
}

func TestAnnotateCrosshairs(t *testing.T) {
	d, _, err := Annotate(testInput(), testOptions())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(d) != 4 {
		t.Fatalf("got %d directives, expected 4: %v", len(d), d)
	}

	// Object 1 at 50+1/0.2, 50-1/0.2; its detection at the catalog pixel less 0.5
	if d[0].Glyph != "+" || d[0].X != 55 || d[0].Y != 45 {
		t.Errorf("bad object marker %s", d[0])
	}
	if d[1].Glyph != "x" || d[1].X != 55 || d[1].Y != 45 || d[1].Color != (emath.Vec3{0, 0, 0}) {
		t.Errorf("bad match marker %s", d[1])
	}
	if d[2].X != 70 || d[3].X != 70 {
		t.Errorf("object 3 markers misplaced: %s, %s", d[2], d[3])
	}
	if d[0].Size != MarkerSize || d[0].LineWidth != MarkerLineWidth {
		t.Errorf("bad marker style %+v", d[0])
	}
}

func TestAnnotateWithoutCatalogIgnoresMatches(t *testing.T) {
	in := testInput()
	in.Catalog = nil
	d, _, err := Annotate(in, testOptions())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(d) != 2 {
		t.Errorf("expected only object markers, got %v", d)
	}
}

func TestAnnotateText(t *testing.T) {
	opt := testOptions()
	opt.Crosshair = false
	opt.Info = `id %(db_id)d\nb=%(b).1f`
	opt.MatchInfo = "flux %(FLUX).0f"
	red := emath.Vec3{1, 0, 0}
	opt.OutlineColor = &red

	d, _, err := Annotate(testInput(), opt)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{"id 1\nb=0.2", "flux 300", "id 3\nb=0.1", "flux 100"}
	if len(d) != len(want) {
		t.Fatalf("got %v", d)
	}
	for i, w := range want {
		if d[i].Kind != Text || d[i].Text != w {
			t.Errorf("[%d] got %s, expected %q", i, d[i], w)
		}
		if d[i].Offset != [2]float64{4, 4} || d[i].Outline == nil || d[i].Size != 12 {
			t.Errorf("[%d] bad text style %+v", i, d[i])
		}
	}
}

func TestAnnotateBadFormatAborts(t *testing.T) {
	opt := testOptions()
	opt.MatchInfo = "%(NOPE)d"
	d, _, err := Annotate(testInput(), opt)
	if !errors.Is(err, ErrAnnotationFormat) || d != nil {
		t.Fatalf("expected ErrAnnotationFormat and no output, got %v, %v", err, d)
	}
}

func TestAnnotateEllipses(t *testing.T) {
	opt := testOptions()
	opt.Crosshair = false
	opt.DrawMoments = true

	d, warnings, err := Annotate(testInput(), opt)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "detection 1,") {
		t.Errorf("expected a warning for detection 1, got %v", warnings)
	}
	// Two object ellipses, then one match ellipse; detection 1 has no shape.
	if len(d) != 3 {
		t.Fatalf("got %v", d)
	}
	e := d[0]
	if e.Kind != Ellipse || math.Abs(e.Width-4) > 1e-9 || math.Abs(e.Height-2) > 1e-9 || math.Abs(e.Angle-90) > 1e-9 {
		t.Errorf("bad object ellipse %s", e)
	}
	if e.Color != opt.EllipseColor {
		t.Errorf("object ellipse color %s", e.Color)
	}
	m := d[2]
	if m.Width != 4 || m.Height != 2 || m.Angle != 80 || m.X != 55 || m.Color != opt.MatchColor {
		t.Errorf("bad match ellipse %s", m)
	}
}

func TestAnnotateBadMatchIndex(t *testing.T) {
	in := testInput()
	in.Table[0].Match = 9
	if _, _, err := Annotate(in, testOptions()); err == nil {
		t.Errorf("expected error for match index past the catalog")
	}
}
