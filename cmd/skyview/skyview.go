package main

import(
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/abworrall/skyview/pkg/ecolor"
	"github.com/abworrall/skyview/pkg/results"
	"github.com/abworrall/skyview/pkg/skyview"
)

var(
	fConfigFilename string
	fOutputFilename string
	fInputFilename string
	fNoStamps bool

	// Flags write into here; the ones set explicitly are copied over
	// whatever the config file said.
	fc = skyview.NewConfig()
	fieldForFlag = map[string]string{}
)

// Repeatable flags
type int64List []int64
func (l *int64List)String() string { return fmt.Sprintf("%v", []int64(*l)) }
func (l *int64List)Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*l = append(*l, v)
	return nil
}

type stringList []string
func (l *stringList)String() string       { return strings.Join(*l, " ") }
func (l *stringList)Set(s string) error   { *l = append(*l, s); return nil }

func bind(flagName, field string) { fieldForFlag[flagName] = field }

func init() {
	flag.StringVar(&fConfigFilename, "config", "", "yaml config file; flags given explicitly override it")
	flag.StringVar(&fOutputFilename, "o", "", "name of output image file (.png, .tif or .hdr)")
	flag.StringVar(&fInputFilename, "input", "", "simulation results yaml file (or give it as the first argument)")
	flag.BoolVar(&fNoStamps, "no-stamps", false, "do not load per-object stamps (no objects can be selected)")
	flag.IntVar(&fc.Verbosity, "v", 0, "verbosity; 1 for progress, 2 adds pixel stats"); bind("v", "Verbosity")

	// Selection
	flag.Var((*int64List)(&fc.Galaxy), "galaxy", "select the galaxy with this database ID (can be repeated)"); bind("galaxy", "Galaxy")
	flag.Var((*int64List)(&fc.Group), "group", "select galaxies in the group with this group ID (can be repeated)"); bind("group", "Group")
	flag.Var((*stringList)(&fc.Select), "select", "select objects passing this cut, e.g. 'snr_iso>6' (can be repeated)"); bind("select", "Select")
	flag.StringVar(&fc.SelectRegion, "select-region", "", "select objects within [xmin,xmax,ymin,ymax], arcsecs from the image center"); bind("select-region", "SelectRegion")

	// Matching
	flag.StringVar(&fc.MatchCatalog, "match-catalog", "", "detection catalog yaml to match against"); bind("match-catalog", "MatchCatalog")
	flag.StringVar(&fc.MatchColor, "match-color", fc.MatchColor, "color for detection catalog matches"); bind("match-color", "MatchColor")
	flag.StringVar(&fc.MatchInfo, "match-info", "", "format for matched detection annotations, e.g. '%(FLUX_AUTO).0f'"); bind("match-info", "MatchInfo")
	flag.Float64Var(&fc.MatchRadius, "match-radius", fc.MatchRadius, "max separation for a match, in arcsecs"); bind("match-radius", "MatchRadius")

	// Viewing
	flag.Float64Var(&fc.Magnification, "magnification", fc.Magnification, "magnification factor for display"); bind("magnification", "Magnification")
	flag.BoolVar(&fc.Crop, "crop", false, "crop the view around the selected objects"); bind("crop", "Crop")
	flag.StringVar(&fc.ViewRegion, "view-region", "", "view [xmin,xmax,ymin,ymax], arcsecs from the image center (overrides -crop)"); bind("view-region", "ViewRegion")
	flag.BoolVar(&fc.DrawMoments, "draw-moments", false, "draw second-moment ellipses of selected objects"); bind("draw-moments", "DrawMoments")
	flag.StringVar(&fc.Info, "info", "", "format for object annotations, e.g. '%(db_id)d'"); bind("info", "Info")
	flag.BoolVar(&fc.NoCrosshair, "no-crosshair", false, "do not draw crosshairs on selected objects"); bind("no-crosshair", "NoCrosshair")
	flag.Float64Var(&fc.ClipLoNoiseFraction, "clip-lo-noise-fraction", fc.ClipLoNoiseFraction, "clip pixels below this fraction of the sky noise"); bind("clip-lo-noise-fraction", "ClipLoNoiseFraction")
	flag.Float64Var(&fc.ClipHiPercentile, "clip-hi-percentile", fc.ClipHiPercentile, "clip non-zero pixels above this percentile of the selected image"); bind("clip-hi-percentile", "ClipHiPercentile")
	flag.BoolVar(&fc.HideBackground, "hide-background", false, "do not show background pixels"); bind("hide-background", "HideBackground")
	flag.BoolVar(&fc.HideSelected, "hide-selected", false, "do not overlay selected pixels"); bind("hide-selected", "HideSelected")
	flag.Func("add-noise", "add Poisson noise with this seed", func(s string) error {
		seed, err := strconv.ParseInt(s, 10, 64)
		fc.AddNoise = &seed
		return err
	}); bind("add-noise", "AddNoise")
	flag.Float64Var(&fc.ClipNoise, "clip-noise", fc.ClipNoise, "clip background at this many sigmas when noise is added"); bind("clip-noise", "ClipNoise")

	// Formatting
	flag.StringVar(&fc.InfoSize, "info-size", fc.InfoSize, "annotation font size, in points or a name (small, large, ...)"); bind("info-size", "InfoSize")
	flag.Float64Var(&fc.DPI, "dpi", fc.DPI, "pixels per inch, for sizing markers and text"); bind("dpi", "DPI")
	flag.IntVar(&fc.MaxViewSize, "max-view-size", fc.MaxViewSize, "max pixel dimension of the output"); bind("max-view-size", "MaxViewSize")
	flag.StringVar(&fc.Colormap, "colormap", fc.Colormap, "colormap for background pixels; "+ecolor.ListColormaps()); bind("colormap", "Colormap")
	flag.StringVar(&fc.Highlight, "highlight", fc.Highlight, "color for highlighted pixels, or 'none'"); bind("highlight", "Highlight")
	flag.StringVar(&fc.CrosshairColor, "crosshair-color", fc.CrosshairColor, "color for crosshairs"); bind("crosshair-color", "CrosshairColor")
	flag.StringVar(&fc.EllipseColor, "ellipse-color", fc.EllipseColor, "color for second-moment ellipses"); bind("ellipse-color", "EllipseColor")
	flag.StringVar(&fc.InfoColor, "info-color", fc.InfoColor, "color for annotation text"); bind("info-color", "InfoColor")
	flag.StringVar(&fc.OutlineColor, "outline-color", "", "color to outline annotation text with"); bind("outline-color", "OutlineColor")
	flag.StringVar(&fc.DumpAlpha, "dump-alpha", "", "debug: write the highlight alpha grid to this PNG"); bind("dump-alpha", "DumpAlpha")

	flag.Parse()

	log.SetFlags(log.Ldate|log.Ltime)
	log.SetOutput(os.Stdout)
}

func main() {
	c := skyview.NewConfig()
	if fConfigFilename != "" {
		var err error
		if c, err = skyview.LoadConfig(fConfigFilename); err != nil {
			log.Fatal(err)
		}
	}

	// Override the config file with command line args, if set
	dst, src := reflect.ValueOf(&c).Elem(), reflect.ValueOf(&fc).Elem()
	flag.Visit(func(f *flag.Flag) {
		if field, exists := fieldForFlag[f.Name]; exists {
			dst.FieldByName(field).Set(src.FieldByName(field))
		}
	})

	if err := c.Finalize(); err != nil {
		log.Fatalf("bad configuration: %v\n", err)
	}
	if fOutputFilename == "" {
		log.Fatal("no output requested; use -o FILE")
	}
	if fInputFilename == "" && flag.NArg() > 0 {
		fInputFilename = flag.Arg(0)
	}
	if fInputFilename == "" {
		log.Fatal("no results file given")
	}

	r, err := results.Load(fInputFilename, fNoStamps)
	if err != nil {
		log.Fatal(err)
	}
	if c.Verbosity > 0 {
		log.Printf("%s\n", r.Description())
		log.Printf("Final configuration:-\n\n%s\n", c.AsYaml())
	}

	v, err := skyview.Run(c, r)
	for _, w := range v.Warnings {
		log.Printf("WARNING: %s\n", w)
	}
	if err != nil {
		log.Fatal(err)
	}

	if err := v.Canvas.Save(fOutputFilename); err != nil {
		log.Fatal(err)
	}
	log.Printf("output file written '%s'\n", fOutputFilename)
}
