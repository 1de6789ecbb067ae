package ecolor

import(
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/skyview/pkg/emath"
)

// LUTSize is how many entries a Colormap has; matches matplotlib's default.
const LUTSize = 256

// A Colormap maps a scalar in [0,1] to an RGB triple via a lookup table,
// so nearby values share an entry just as they do in matplotlib.
type Colormap struct {
	Name string
	lut  [LUTSize]emath.Vec3
}

// Map looks up z; values outside [0,1] are clamped.
func (cm *Colormap)Map(z float64) emath.Vec3 {
	i := int(z * LUTSize)
	if i < 0 { i = 0 }
	if i >= LUTSize { i = LUTSize-1 }
	return cm.lut[i]
}

// Control points for the sequential maps, evenly spaced from 0 to 1.
// The ColorBrewer ones are from https://colorbrewer2.org/ (9-class).
var controlPoints = map[string][]string{
	"YlGnBu":  {"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58"},
	"Greys":   {"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696", "#737373", "#525252", "#252525", "#000000"},
	"Blues":   {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"Reds":    {"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"},
	"YlOrRd":  {"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c", "#fc4e2a", "#e31a1c", "#bd0026", "#800026"},
	"gray":    {"#000000", "#ffffff"},
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
}

func ListColormaps() string {
	names := []string{}
	for name := range controlPoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%v (append _r to reverse)", names)
}

// GetColormap builds the named colormap. A `_r` suffix reverses it.
func GetColormap(name string) (*Colormap, error) {
	base, reversed := name, false
	if strings.HasSuffix(name, "_r") {
		base, reversed = strings.TrimSuffix(name, "_r"), true
	}

	hexes, exists := controlPoints[base]
	if !exists {
		return nil, fmt.Errorf("no colormap named '%s', wanted one of %s", name, ListColormaps())
	}

	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("colormap '%s': %v", name, err)
		}
		stops[i] = c
	}
	if reversed {
		for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
			stops[i], stops[j] = stops[j], stops[i]
		}
	}

	cm := Colormap{Name: name}
	nSeg := float64(len(stops) - 1)
	for i:=0; i<LUTSize; i++ {
		pos := float64(i) / float64(LUTSize-1) * nSeg
		seg := int(pos)
		if seg >= len(stops)-1 { seg = len(stops)-2 }
		c := stops[seg].BlendRgb(stops[seg+1], pos - float64(seg))
		cm.lut[i] = emath.Vec3{c.R, c.G, c.B}
	}

	return &cm, nil
}
