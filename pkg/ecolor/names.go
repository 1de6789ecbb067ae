package ecolor

import(
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/skyview/pkg/emath"
)

// The matplotlib color names people actually type.
var namedColors = map[string]string{
	"black":       "#000000",
	"white":       "#ffffff",
	"red":         "#ff0000",
	"green":       "#008000",
	"lime":        "#00ff00",
	"blue":        "#0000ff",
	"yellow":      "#ffff00",
	"cyan":        "#00ffff",
	"magenta":     "#ff00ff",
	"orange":      "#ffa500",
	"purple":      "#800080",
	"pink":        "#ffc0cb",
	"gray":        "#808080",
	"grey":        "#808080",
	"greenyellow": "#adff2f",
	"gold":        "#ffd700",
	"navy":        "#000080",
	"brown":       "#a52a2a",
	"violet":      "#ee82ee",
	"tomato":      "#ff6347",
	"skyblue":     "#87ceeb",
	"chartreuse":  "#7fff00",

	// single letter shorthands
	"r": "#ff0000", "g": "#008000", "b": "#0000ff", "c": "#00bfbf",
	"m": "#bf00bf", "y": "#bfbf00", "k": "#000000", "w": "#ffffff",
}

// ParseColor understands color names, #rrggbb hex, and gray levels given
// as a number in [0,1]. "none" (or empty) yields nil, meaning no color.
func ParseColor(s string) (*emath.Vec3, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "none" {
		return nil, nil
	}

	if hex, exists := namedColors[name]; exists {
		name = hex
	}

	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return nil, fmt.Errorf("color '%s': %v", s, err)
		}
		return &emath.Vec3{c.R, c.G, c.B}, nil
	}

	if gray, err := strconv.ParseFloat(name, 64); err == nil && gray >= 0 && gray <= 1 {
		return &emath.Vec3{gray, gray, gray}, nil
	}

	return nil, fmt.Errorf("color '%s' not recognized", s)
}

// MustParseColor is for colors known to be good, like defaults.
func MustParseColor(s string) emath.Vec3 {
	c, err := ParseColor(s)
	if err != nil || c == nil {
		panic(fmt.Sprintf("bad color %q: %v", s, err))
	}
	return *c
}
