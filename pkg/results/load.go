package results

import(
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/skyview/pkg/emath"
)

/* Example results file. Pixel files are raw little-endian float32,
   row-major with the bottom (ymin) row first, and are looked up relative
   to the yaml file.

survey:
  name: LSST-i
  pixel_scale: 0.2
  image_width: 100
  image_height: 100
  mean_sky_level: 1000.0
  image: survey.f32

table:
  - {db_id: 1, grp_id: 10, dx: -1.2, dy: 0.4, a: 0.6, b: 0.4, beta: 0.3, snr_iso: 25.1}
  - {db_id: 2, grp_id: 10, dx:  3.0, dy: 2.1, a: 0.3, b: 0.3, beta: 0.0, snr_iso: 8.9}

stamps:
  - object: 0
    bounds: [40, 49, 48, 57]
    pixels: stamp-0.f32

*/

type surveySpec struct {
	Name         string  `yaml:"name"`
	PixelScale   float64 `yaml:"pixel_scale"`
	ImageWidth   int     `yaml:"image_width"`
	ImageHeight  int     `yaml:"image_height"`
	MeanSkyLevel float64 `yaml:"mean_sky_level"`
	Image        string  `yaml:"image"`
}

type stampSpec struct {
	Object int    `yaml:"object"`
	Bounds [4]int `yaml:"bounds"` // xmin, xmax, ymin, ymax, inclusive
	Pixels string `yaml:"pixels"`
}

type resultsSpec struct {
	Survey surveySpec  `yaml:"survey"`
	Table  ObjectTable `yaml:"table"`
	Stamps []stampSpec `yaml:"stamps"`
}

// Load reads a results file. If skipStamps is set, stamps are not
// loaded at all, and selecting objects will fail later on.
func Load(filename string, skipStamps bool) (*Results, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read '%s': %v", filename, err)
	}

	spec := resultsSpec{}
	if err := yaml.Unmarshal(contents, &spec); err != nil {
		return nil, fmt.Errorf("parse '%s': %v", filename, err)
	}

	s := spec.Survey
	if s.PixelScale <= 0 || s.ImageWidth <= 0 || s.ImageHeight <= 0 {
		return nil, fmt.Errorf("'%s': survey needs positive pixel_scale, image_width, image_height", filename)
	}

	dir := filepath.Dir(filename)
	r := &Results{
		Survey: Survey{
			Name:         s.Name,
			PixelScale:   s.PixelScale,
			ImageWidth:   s.ImageWidth,
			ImageHeight:  s.ImageHeight,
			MeanSkyLevel: s.MeanSkyLevel,
		},
		Table:  spec.Table,
		Stamps: map[int]*emath.Image{},
	}

	surveyBounds := emath.NewBounds(0, 0, s.ImageWidth, s.ImageHeight)
	if r.Survey.Image, err = loadImage(dir, s.Image, surveyBounds, s.PixelScale); err != nil {
		return nil, fmt.Errorf("'%s' survey image: %v", filename, err)
	}

	if skipStamps {
		return r, nil
	}
	for _, ss := range spec.Stamps {
		if ss.Object < 0 || ss.Object >= len(r.Table) {
			return nil, fmt.Errorf("'%s': stamp for object %d, but table has %d rows", filename, ss.Object, len(r.Table))
		}
		b := emath.Bounds{XMin:ss.Bounds[0], XMax:ss.Bounds[1], YMin:ss.Bounds[2], YMax:ss.Bounds[3]}
		if r.Stamps[ss.Object], err = loadImage(dir, ss.Pixels, b, s.PixelScale); err != nil {
			return nil, fmt.Errorf("'%s' stamp %d: %v", filename, ss.Object, err)
		}
	}

	return r, nil
}

func loadImage(dir, name string, b emath.Bounds, scale float64) (*emath.Image, error) {
	if !b.Defined() {
		return nil, fmt.Errorf("bad bounds %s", b)
	}
	if name == "" {
		return emath.NewImage(b, scale), nil // all zeros
	}
	vals, err := ReadFloat32s(filepath.Join(dir, name), b.Area())
	if err != nil {
		return nil, err
	}
	return emath.NewImageFromValues(b, scale, vals)
}

// ReadFloat32s reads exactly n little-endian float32 values.
func ReadFloat32s(filename string, n int) ([]float32, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer f.Close()

	vals := make([]float32, n)
	if err := binary.Read(f, binary.LittleEndian, vals); err != nil {
		return nil, fmt.Errorf("read %d pixels from '%s': %v", n, filename, err)
	}
	return vals, nil
}

// WriteFloat32s is the inverse of ReadFloat32s.
func WriteFloat32s(filename string, vals []float32) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer f.Close()
	return binary.Write(f, binary.LittleEndian, vals)
}
