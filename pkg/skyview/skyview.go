// Package skyview runs one render: select objects from simulation
// results, pick a view, composite the pixels, annotate, and draw.
package skyview

import(
	"fmt"
	"log"

	"github.com/abworrall/skyview/pkg/annotate"
	"github.com/abworrall/skyview/pkg/composite"
	"github.com/abworrall/skyview/pkg/emath"
	"github.com/abworrall/skyview/pkg/match"
	"github.com/abworrall/skyview/pkg/render"
	"github.com/abworrall/skyview/pkg/results"
	"github.com/abworrall/skyview/pkg/selection"
	"github.com/abworrall/skyview/pkg/viewport"
)

// A View is everything one render produced, plus the non-fatal warnings
// encountered along the way.
type View struct {
	Config      Config
	Results    *results.Results
	Table       results.ObjectTable   // with the match column filled in, if matching
	Catalog    *match.Catalog
	Match      *match.Result

	Selection   selection.Result
	Selected   *emath.Image           // nil if nothing selected
	Viewport    viewport.Viewport
	Composite  *composite.Composite
	Directives []annotate.Directive
	Canvas     *render.Canvas

	Warnings   []string
}

func (v *View)warn(w ...string) {
	v.Warnings = append(v.Warnings, w...)
}

func (v *View)Geometry() viewport.Geometry {
	return viewport.Geometry{
		PixelScale:  v.Results.PixelScale,
		ImageWidth:  v.Results.ImageWidth,
		ImageHeight: v.Results.ImageHeight,
	}
}

// Run performs the whole render. The config must have been finalized. r is
// only read, so renders may share it; if noise is requested the View holds
// a noisy copy of it. The first fatal error stops everything; the View is
// still returned, so its Warnings can be reported.
func Run(c Config, r *results.Results) (*View, error) {
	v := &View{Config:c, Results:r, Table:r.Table}
	if c.ColormapLUT == nil {
		return v, fmt.Errorf("skyview.Run: config not finalized")
	}

	if c.AddNoise != nil {
		v.Results = r.WithNoise(*c.AddNoise)
		if c.Verbosity > 0 {
			log.Printf("Added noise with seed %d\n", *c.AddNoise)
		}
	}

	if err := v.matchCatalog(); err != nil {
		return v, err
	}

	if err := v.selectObjects(); err != nil {
		return v, err
	}

	if err := v.resolveViewport(); err != nil {
		return v, err
	}

	if err := v.compositePixels(); err != nil {
		return v, err
	}

	directives, warnings, err := annotate.Annotate(annotate.Input{
		Geometry: v.Geometry(),
		Table:    v.Table,
		Selected: v.Selection.Indices,
		Catalog:  v.Catalog,
	}, annotate.Options{
		Crosshair:      !c.NoCrosshair,
		Info:           c.Info,
		MatchInfo:      c.MatchInfo,
		DrawMoments:    c.DrawMoments,
		CrosshairColor: c.CrosshairRGB,
		MatchColor:     c.MatchRGB,
		EllipseColor:   c.EllipseRGB,
		InfoColor:      c.InfoRGB,
		OutlineColor:   c.OutlineRGB,
		InfoSize:       c.InfoSizePoints,
	})
	v.warn(warnings...)
	if err != nil {
		return v, err
	}
	v.Directives = directives

	v.Canvas, err = render.Render(v.Viewport, v.Composite, v.Directives, render.Options{
		Magnification: c.Magnification,
		DPI:           c.DPI,
	})
	if err != nil {
		return v, err
	}
	if c.Verbosity > 0 {
		log.Printf("Rendered %d annotation(s) onto %dx%d canvas\n",
			len(v.Directives), v.Canvas.Width(), v.Canvas.Height())
	}

	return v, nil
}

func (v *View)matchCatalog() error {
	c := v.Config
	if c.MatchCatalog == "" {
		return nil
	}

	cat, err := match.LoadCatalog(c.MatchCatalog)
	if err != nil {
		return err
	}
	table, res, err := match.Match(v.Results, cat, c.MatchRadius)
	if err != nil {
		return err
	}
	v.Catalog, v.Table, v.Match = cat, table, &res

	if c.Verbosity > 0 {
		log.Printf("Matched %d of %d detected objects (median sep. = %.2f arcsecs)\n",
			res.NumMatched(), len(cat.Rows), res.MedianDistance())
	}
	return nil
}

func (v *View)selectObjects() error {
	c := v.Config

	req := selection.Request{
		Cuts:    append([]string{}, c.Select...),
		Groups:  c.Group,
		Objects: c.Galaxy,
	}
	if r := c.SelectRegionBounds; r != nil {
		req.Cuts = append(req.Cuts, selection.RegionCuts(r.XMin, r.XMax, r.YMin, r.YMax)...)
	}

	sel, err := selection.Select(v.Table, req)
	if err != nil {
		return err
	}
	v.Selection = sel
	v.warn(sel.Warnings...)

	if c.Verbosity > 0 {
		log.Printf("Selected IDs: %v\n", v.Table.DbIDs(sel.Indices))
	}

	if sel.Any() && !v.Results.HasStamps() {
		return fmt.Errorf("cannot display %d selected object(s): %w", len(sel.Indices), results.ErrNoStampsAvailable)
	}

	v.Selected, err = v.Results.GetSubimage(sel.Indices)
	return err
}

func (v *View)resolveViewport() error {
	c := v.Config
	g := v.Geometry()

	var selectedBounds *emath.Bounds
	if v.Selected != nil {
		selectedBounds = &v.Selected.Bounds
	}

	vp, err := viewport.Resolve(g, viewport.Request{
		Region:        c.ViewRegionBounds,
		Crop:          c.Crop,
		Magnification: c.Magnification,
		MaxViewSize:   c.MaxViewSize,
	}, selectedBounds)
	if err != nil {
		return err
	}
	v.Viewport = vp

	if c.Verbosity > 0 {
		log.Printf("View window is [xmin,xmax,ymin,ymax] = %s arcsecs\n", vp.Physical(g))
		log.Printf("View pixels in %s (%s)\n", vp.Bounds, vp.Source)
	}
	return nil
}

func (v *View)compositePixels() error {
	c := v.Config

	comp, warnings, err := composite.Render(composite.Input{
		View:     v.Viewport.Bounds,
		Survey:   v.Results.Image,
		Selected: v.Selected,
	}, composite.Options{
		HideBackground:      c.HideBackground,
		HideSelected:        c.HideSelected,
		ClipHiPercentile:    c.ClipHiPercentile,
		ClipLoNoiseFraction: c.ClipLoNoiseFraction,
		NoiseAdded:          v.Results.NoiseAdded(),
		ClipNoise:           c.ClipNoise,
		MeanSkyLevel:        v.Results.MeanSkyLevel,
		Colormap:            c.ColormapLUT,
		Highlight:           c.HighlightRGB,
	})
	v.warn(warnings...)
	if err != nil {
		return err
	}
	v.Composite = comp

	if c.DumpAlpha != "" {
		if err := comp.HighlightedZ.ToImg("highlight alpha", c.DumpAlpha); err != nil {
			return fmt.Errorf("dump alpha: %v", err)
		}
	}

	if c.Verbosity > 0 {
		log.Printf("Clipping pixel values to %s\n", comp.Clip)
	}
	if c.Verbosity > 1 {
		log.Printf("Survey fluxes in view: %s\n", FluxSummary(v.Results.Image, v.Viewport.Bounds))
		log.Printf("Highlight alpha histogram (x255):\n%s\n", AlphaHistogram(comp.HighlightedZ))
	}
	return nil
}
