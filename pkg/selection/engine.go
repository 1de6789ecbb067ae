package selection

import "fmt"

// Request describes which objects to select. Cuts are AND-ed together;
// an empty Cuts selects nothing. Each group and object identifier is
// then OR-ed in.
type Request struct {
	Cuts     []string
	Groups   []int64 // matched against grp_id
	Objects  []int64 // matched against db_id
}

// Result is the final selection. Indices lists selected rows in table
// order. Warnings are non-fatal (e.g. an identifier that matched nothing).
type Result struct {
	Mask     []bool
	Indices  []int
	Warnings []string
}

func (r Result)Any() bool { return len(r.Indices) > 0 }

// Select runs the selection engine over the table.
func Select(t Table, req Request) (Result, error) {
	res := Result{}

	cuts := req.Cuts
	if len(cuts) == 0 {
		cuts = []string{"NONE"} // Nothing is selected by default
	}
	mask, err := Evaluate(t, ModeAnd, cuts...)
	if err != nil {
		return res, err
	}

	orIn := func(column, noun string, ids []int64) error {
		for _, id := range ids {
			selected, err := Evaluate(t, ModeAnd, fmt.Sprintf("%s==%d", column, id))
			if err != nil {
				return err
			}
			if !anySelected(selected) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("no %s found with ID %d", noun, id))
			}
			for i := range mask {
				mask[i] = mask[i] || selected[i]
			}
		}
		return nil
	}

	if err := orIn("grp_id", "group", req.Groups); err != nil {
		return res, err
	}
	if err := orIn("db_id", "galaxy", req.Objects); err != nil {
		return res, err
	}

	res.Mask = mask
	res.Indices = Indices(mask)
	return res, nil
}

// Indices returns the positions where mask is true, in order.
func Indices(mask []bool) []int {
	idx := []int{}
	for i, m := range mask {
		if m {
			idx = append(idx, i)
		}
	}
	return idx
}

func anySelected(mask []bool) bool {
	for _, m := range mask {
		if m { return true }
	}
	return false
}

// RegionCuts expresses a rectangular region, in arcsecs relative to the
// image center, as four cuts on the centroid offsets.
func RegionCuts(xmin, xmax, ymin, ymax float64) []string {
	return []string{
		fmt.Sprintf("dx>=%f", xmin),
		fmt.Sprintf("dx<%f", xmax),
		fmt.Sprintf("dy>=%f", ymin),
		fmt.Sprintf("dy<%f", ymax),
	}
}
