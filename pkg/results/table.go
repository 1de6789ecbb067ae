package results

import(
	"sort"
)

// An Object is one row of the simulation's object table. Columns beyond
// the named ones (magnitudes, SNRs, etc.) land in Extra, and can be cut
// on and used in annotations like any other column.
type Object struct {
	DbID   int64              `yaml:"db_id"`
	GrpID  int64              `yaml:"grp_id"`
	Dx     float64            `yaml:"dx"`    // centroid offset from image center, arcsecs
	Dy     float64            `yaml:"dy"`
	A      float64            `yaml:"a"`     // 50% isophote second-moment semi-axes, arcsecs
	B      float64            `yaml:"b"`
	Beta   float64            `yaml:"beta"`  // position angle, radians
	Match  int                `yaml:"match"` // row in a detection catalog, or -1

	Extra  map[string]float64 `yaml:",inline"`
}

// Missing `match` means unmatched, not row zero.
func (o *Object)UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain Object
	p := plain{Match: -1}
	if err := unmarshal(&p); err != nil {
		return err
	}
	*o = Object(p)
	return nil
}

var namedColumns = []string{"db_id", "grp_id", "dx", "dy", "a", "b", "beta", "match"}

// Field looks up a column value by name.
func (o Object)Field(name string) (interface{}, bool) {
	switch name {
	case "db_id":  return o.DbID, true
	case "grp_id": return o.GrpID, true
	case "dx":     return o.Dx, true
	case "dy":     return o.Dy, true
	case "a":      return o.A, true
	case "b":      return o.B, true
	case "beta":   return o.Beta, true
	case "match":  return int64(o.Match), true
	}
	v, exists := o.Extra[name]
	return v, exists
}

// An ObjectTable is the row-oriented table of simulated objects.
type ObjectTable []Object

func (t ObjectTable)NumRows() int { return len(t) }

// Columns lists the schema: the named columns, then any extra columns
// present on every row, sorted.
func (t ObjectTable)Columns() []string {
	cols := append([]string{}, namedColumns...)
	if len(t) == 0 {
		return cols
	}
	extra := []string{}
	for name := range t[0].Extra {
		common := true
		for _, o := range t[1:] {
			if _, exists := o.Extra[name]; !exists {
				common = false
				break
			}
		}
		if common {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

// Column implements selection.Table. Integer columns are widened to float64.
func (t ObjectTable)Column(name string) ([]float64, bool) {
	known := false
	for _, c := range t.Columns() {
		if c == name {
			known = true
			break
		}
	}
	if !known {
		return nil, false
	}

	vals := make([]float64, len(t))
	for i, o := range t {
		v, _ := o.Field(name)
		switch n := v.(type) {
		case int64:   vals[i] = float64(n)
		case float64: vals[i] = n
		}
	}
	return vals, true
}

// IntColumn implements selection.IntTable for the integer columns.
func (t ObjectTable)IntColumn(name string) ([]int64, bool) {
	switch name {
	case "db_id", "grp_id", "match":
	default:
		return nil, false
	}

	vals := make([]int64, len(t))
	for i, o := range t {
		v, _ := o.Field(name)
		vals[i] = v.(int64)
	}
	return vals, true
}

// DbIDs returns the db_id column for the given rows.
func (t ObjectTable)DbIDs(indices []int) []int64 {
	ids := make([]int64, len(indices))
	for i, idx := range indices {
		ids[i] = t[idx].DbID
	}
	return ids
}
