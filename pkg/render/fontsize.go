package render

import(
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BaseFontSize is what "medium" means, in points.
const BaseFontSize = 10.0

var fontScalings = map[string]float64{
	"xx-small": 0.579,
	"x-small":  0.694,
	"small":    0.833,
	"medium":   1.0,
	"large":    1.200,
	"x-large":  1.440,
	"xx-large": 1.728,
	"larger":   1.2,
	"smaller":  0.833,
}

// ParseFontSize accepts a size in points, or a relative name like "large".
func ParseFontSize(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if scale, exists := fontScalings[strings.ToLower(s)]; exists {
		return BaseFontSize * scale, nil
	}
	if pt, err := strconv.ParseFloat(s, 64); err == nil && pt > 0 {
		return pt, nil
	}

	names := []string{}
	for k := range fontScalings {
		names = append(names, k)
	}
	sort.Strings(names)
	return 0, fmt.Errorf("bad font size '%s' (want points, or one of %s)", s, strings.Join(names, ","))
}
