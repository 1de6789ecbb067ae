package results

import(
	"errors"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/abworrall/skyview/pkg/emath"
	"github.com/abworrall/skyview/pkg/selection"
)

func testResults() *Results {
	survey := emath.NewImage(emath.NewBounds(0, 0, 20, 20), 0.2)
	for y:=0; y<20; y++ {
		for x:=0; x<20; x++ {
			survey.Set(x, y, 5)
		}
	}

	s0 := emath.NewImage(emath.Bounds{XMin: 2, XMax: 4, YMin: 2, YMax: 4}, 0.2)
	s1 := emath.NewImage(emath.Bounds{XMin: 4, XMax: 6, YMin: 3, YMax: 5}, 0.2)
	for y:=2; y<=4; y++ {
		for x:=2; x<=4; x++ {
			s0.Set(x, y, 1)
		}
	}
	for y:=3; y<=5; y++ {
		for x:=4; x<=6; x++ {
			s1.Set(x, y, 2)
		}
	}

	return &Results{
		Survey: Survey{PixelScale:0.2, ImageWidth:20, ImageHeight:20, MeanSkyLevel:100, Image:survey},
		Table: ObjectTable{
			{DbID:1, GrpID:10, Dx:-1, Dy:-1, Match:-1, Extra:map[string]float64{"snr": 12}},
			{DbID:2, GrpID:10, Dx:0, Dy:0, Match:-1, Extra:map[string]float64{"snr": 3}},
			{DbID:3, GrpID:20, Dx:1, Dy:1, Match:-1, Extra:map[string]float64{"snr": 40}},
		},
		Stamps: map[int]*emath.Image{0: s0, 1: s1},
	}
}

func TestTableColumns(t *testing.T) {
	r := testResults()
	cols := r.Table.Columns()
	if cols[len(cols)-1] != "snr" {
		t.Fatalf("expected extra column last, got %v", cols)
	}

	ids, exists := r.Table.Column("db_id")
	if !exists || !reflect.DeepEqual(ids, []float64{1, 2, 3}) {
		t.Fatalf("db_id column = %v, %v", ids, exists)
	}
	if _, exists := r.Table.Column("nope"); exists {
		t.Fatalf("unexpected column")
	}
	if _, exists := r.Table.IntColumn("snr"); exists {
		t.Fatalf("snr is not an integer column")
	}

	big := ObjectTable{{DbID:9007199254740993}, {DbID:9007199254740992}}
	mask, err := selection.Evaluate(big, selection.ModeAnd, "db_id==9007199254740993")
	if err != nil || !reflect.DeepEqual(mask, []bool{true, false}) {
		t.Fatalf("exact id cut: %v, err %v", mask, err)
	}

	idx, err := r.SelectIndices("and", "snr>10", "grp_id==10")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(idx, []int{0}) {
		t.Fatalf("indices = %v", idx)
	}
}

func TestGetSubimageSumsStamps(t *testing.T) {
	r := testResults()
	img, err := r.GetSubimage([]int{0, 1})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if img.Bounds != (emath.Bounds{XMin: 2, XMax: 6, YMin: 2, YMax: 5}) {
		t.Fatalf("bounds = %s", img.Bounds)
	}
	if img.At(4, 3) != 3 || img.At(2, 2) != 1 || img.At(6, 5) != 2 || img.At(6, 2) != 0 {
		t.Errorf("unexpected sum: %v %v %v %v", img.At(4, 3), img.At(2, 2), img.At(6, 5), img.At(6, 2))
	}
	if r.Stamps[0].At(4, 3) != 1 {
		t.Errorf("stamp modified")
	}

	if img, err := r.GetSubimage(nil); img != nil || err != nil {
		t.Errorf("empty selection gave %v, %v", img, err)
	}
	if img, err := r.GetSubimage([]int{2}); img != nil || err != nil {
		t.Errorf("object without stamp gave %v, %v", img, err)
	}

	r.Stamps = nil
	if _, err := r.GetSubimage([]int{0}); !errors.Is(err, ErrNoStampsAvailable) {
		t.Errorf("expected ErrNoStampsAvailable, got %v", err)
	}
}

func TestWithNoiseIsReproducible(t *testing.T) {
	r := testResults()
	orig := r.Survey.Image

	r1 := r.WithNoise(7)
	r2 := r.WithNoise(7)

	if !r1.NoiseAdded() {
		t.Fatalf("noise not recorded")
	}
	if r.NoiseAdded() || r.Survey.Image != orig {
		t.Fatalf("input results modified")
	}
	if orig.At(3, 3) != 5 {
		t.Fatalf("original buffer modified")
	}
	if !reflect.DeepEqual(r1.Survey.Image.Pixels.Values(), r2.Survey.Image.Pixels.Values()) {
		t.Fatalf("same seed gave different noise")
	}

	same := true
	for y:=0; y<20 && same; y++ {
		for x:=0; x<20; x++ {
			if r1.Survey.Image.At(x, y) != 5 {
				same = false
				break
			}
		}
	}
	if same {
		t.Errorf("noise did not change any pixel")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	survey := make([]float32, 4*3)
	for i := range survey {
		survey[i] = float32(i)
	}
	if err := WriteFloat32s(filepath.Join(dir, "survey.f32"), survey); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFloat32s(filepath.Join(dir, "s0.f32"), []float32{1, 2, 3, 4}); err != nil {
		t.Fatalf("write: %v", err)
	}

	yml := `
survey:
  name: test
  pixel_scale: 0.5
  image_width: 4
  image_height: 3
  mean_sky_level: 16
  image: survey.f32
table:
  - {db_id: 11, grp_id: 1, dx: 0.1, dy: -0.2, a: 0.5, b: 0.25, beta: 0.1, ab_mag: 24.5}
  - {db_id: 12, grp_id: 1, dx: 0.3, dy: 0.4, a: 0.5, b: 0.25, beta: 0.1, ab_mag: 22.0, match: 3}
stamps:
  - object: 1
    bounds: [1, 2, 0, 1]
    pixels: s0.f32
`
	filename := filepath.Join(dir, "results.yaml")
	if err := ioutil.WriteFile(filename, []byte(yml), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := Load(filename, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.NumObjects() != 2 || r.Table[0].DbID != 11 || r.Table[1].Extra["ab_mag"] != 22.0 {
		t.Fatalf("table = %+v", r.Table)
	}
	if r.Table[0].Match != -1 || r.Table[1].Match != 3 {
		t.Errorf("match defaults wrong: %d %d", r.Table[0].Match, r.Table[1].Match)
	}
	if r.Survey.Image.At(3, 2) != 11 || r.Survey.Image.At(1, 0) != 1 {
		t.Errorf("survey pixels wrong: %v %v", r.Survey.Image.At(3, 2), r.Survey.Image.At(1, 0))
	}
	if st := r.Stamps[1]; st == nil || st.At(2, 1) != 4 {
		t.Errorf("stamp not loaded: %v", st)
	}
	if r.SkyNoise() != 4 {
		t.Errorf("sky noise = %v", r.SkyNoise())
	}

	r, err = Load(filename, true)
	if err != nil || r.HasStamps() {
		t.Errorf("skipStamps: %v, %v", err, r.HasStamps())
	}
}
