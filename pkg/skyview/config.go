package skyview

import(
	"fmt"
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/skyview/pkg/composite"
	"github.com/abworrall/skyview/pkg/ecolor"
	"github.com/abworrall/skyview/pkg/emath"
	"github.com/abworrall/skyview/pkg/render"
	"github.com/abworrall/skyview/pkg/viewport"
)

/* Example config file; anything not set keeps its default, and command
   line flags override whatever is here.

verbosity: 1
galaxy: [402700012345]
select: ["snr_iso>6", "grp_size>1"]
crop: true
magnification: 4
drawmoments: true
info: "%(db_id)d\n%(snr_iso).1f"
colormap: Blues_r
highlight: orange
outlinecolor: black

*/

type Config struct {
	Verbosity             int

	// Selection
	Galaxy              []int64
	Group               []int64
	Select              []string
	SelectRegion          string        // "[xmin,xmax,ymin,ymax]" arcsecs

	// Matching
	MatchCatalog          string
	MatchInfo             string
	MatchRadius           float64       // arcsecs

	// Viewing
	Magnification         float64
	Crop                  bool
	ViewRegion            string        // "[xmin,xmax,ymin,ymax]" arcsecs
	DrawMoments           bool
	Info                  string
	NoCrosshair           bool
	ClipLoNoiseFraction   float64
	ClipHiPercentile      float64
	HideBackground        bool
	HideSelected          bool
	AddNoise             *int64         // seed; nil for no noise
	ClipNoise             float64       // sigmas, when noise is added

	// Formatting
	InfoSize              string
	DPI                   float64
	MaxViewSize           int
	Colormap              string
	Highlight             string
	CrosshairColor        string
	EllipseColor          string
	InfoColor             string
	OutlineColor          string
	MatchColor            string

	DumpAlpha             string        // if set, write the highlight alpha grid here as a debug PNG

	// Values resolved by Finalize
	SelectRegionBounds   *viewport.Region  `yaml:"-"`
	ViewRegionBounds     *viewport.Region  `yaml:"-"`
	ColormapLUT          *ecolor.Colormap  `yaml:"-"`
	HighlightRGB         *emath.Vec3       `yaml:"-"`
	CrosshairRGB          emath.Vec3       `yaml:"-"`
	EllipseRGB            emath.Vec3       `yaml:"-"`
	InfoRGB               emath.Vec3       `yaml:"-"`
	OutlineRGB           *emath.Vec3       `yaml:"-"`
	MatchRGB              emath.Vec3       `yaml:"-"`
	InfoSizePoints        float64          `yaml:"-"`
}

func NewConfig() Config {
	return Config{
		Galaxy:              []int64{},
		Group:               []int64{},
		Select:              []string{},
		MatchRadius:         1.0,
		Magnification:       1.0,
		ClipLoNoiseFraction: 0.1,
		ClipHiPercentile:    90.0,
		ClipNoise:           -1.0,
		InfoSize:            "large",
		DPI:                 64.0,
		MaxViewSize:         2048,
		Colormap:            "YlGnBu",
		Highlight:           "red",
		CrosshairColor:      "greenyellow",
		EllipseColor:        "greenyellow",
		InfoColor:           "green",
		MatchColor:          "black",
	}
}

// LoadConfig reads a yaml config on top of the defaults. It is not
// finalized, so that command line flags can still be applied.
func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	if contents,err := ioutil.ReadFile(filename); err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	} else if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return c, nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Finalize does sanity checks, and resolves names (regions, colors,
// colormaps, font sizes) into the values the pipeline uses.
func (c *Config)Finalize() error {
	if c.HideBackground && c.HideSelected {
		return fmt.Errorf("HideBackground and HideSelected: %w", composite.ErrEmptyView)
	}
	if c.Magnification <= 0 {
		return fmt.Errorf("bad Magnification %v", c.Magnification)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("bad DPI %v", c.DPI)
	}
	if c.MaxViewSize < 0 {
		return fmt.Errorf("bad MaxViewSize %d", c.MaxViewSize)
	}
	if c.ClipHiPercentile <= 0 || c.ClipHiPercentile > 100 {
		return fmt.Errorf("bad ClipHiPercentile %v, want (0,100]", c.ClipHiPercentile)
	}
	if c.MatchRadius <= 0 {
		return fmt.Errorf("bad MatchRadius %v", c.MatchRadius)
	}

	c.SelectRegionBounds, c.ViewRegionBounds = nil, nil
	if c.SelectRegion != "" {
		r, err := viewport.ParseRegion(c.SelectRegion)
		if err != nil {
			return fmt.Errorf("SelectRegion: %w", err)
		}
		c.SelectRegionBounds = &r
	}
	if c.ViewRegion != "" {
		r, err := viewport.ParseRegion(c.ViewRegion)
		if err != nil {
			return fmt.Errorf("ViewRegion: %w", err)
		}
		c.ViewRegionBounds = &r
	}

	cm, err := ecolor.GetColormap(c.Colormap)
	if err != nil {
		return err
	}
	c.ColormapLUT = cm

	if c.HighlightRGB, err = ecolor.ParseColor(c.Highlight); err != nil {
		return fmt.Errorf("Highlight: %v", err)
	}
	if c.OutlineRGB, err = ecolor.ParseColor(c.OutlineColor); err != nil {
		return fmt.Errorf("OutlineColor: %v", err)
	}

	for _, col := range []struct{
		name string
		val  string
		dst *emath.Vec3
	}{
		{"CrosshairColor", c.CrosshairColor, &c.CrosshairRGB},
		{"EllipseColor",   c.EllipseColor,   &c.EllipseRGB},
		{"InfoColor",      c.InfoColor,      &c.InfoRGB},
		{"MatchColor",     c.MatchColor,     &c.MatchRGB},
	} {
		v, err := ecolor.ParseColor(col.val)
		if err != nil {
			return fmt.Errorf("%s: %v", col.name, err)
		} else if v == nil {
			return fmt.Errorf("%s: need a color, not '%s'", col.name, col.val)
		}
		*col.dst = *v
	}

	if c.InfoSizePoints, err = render.ParseFontSize(c.InfoSize); err != nil {
		return fmt.Errorf("InfoSize: %v", err)
	}

	return nil
}
