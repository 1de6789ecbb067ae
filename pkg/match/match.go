package match

import(
	"fmt"
	"io/ioutil"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/skyview/pkg/results"
)

// A Detection is one row of a detection catalog, keyed by
// SExtractor-style column names (X_IMAGE, Y_IMAGE, A_IMAGE, ...).
// X_IMAGE and Y_IMAGE are 1-based pixel-center coords.
type Detection map[string]float64

func (d Detection)Field(name string) (interface{}, bool) {
	v, exists := d[name]
	return v, exists
}

// Position is where the detection sits in display coords.
func (d Detection)Position() (float64, float64) {
	return d["X_IMAGE"] - 0.5, d["Y_IMAGE"] - 0.5
}

// A Catalog is the detection table.
type Catalog struct {
	Filename string
	Rows     []Detection
}

// LoadCatalog reads a yaml list of detections. Every row needs
// X_IMAGE and Y_IMAGE.
func LoadCatalog(filename string) (*Catalog, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read '%s': %v", filename, err)
	}

	c := Catalog{Filename: filename}
	if err := yaml.Unmarshal(contents, &c.Rows); err != nil {
		return nil, fmt.Errorf("parse '%s': %v", filename, err)
	}
	for i, row := range c.Rows {
		_, hasX := row["X_IMAGE"]
		_, hasY := row["Y_IMAGE"]
		if !hasX || !hasY {
			return nil, fmt.Errorf("'%s' row %d: needs X_IMAGE and Y_IMAGE", filename, i)
		}
	}
	return &c, nil
}

// Result is the per-detection outcome of matching.
type Result struct {
	Matched  []bool     // whether each detection matched a simulated object
	Indices  []int      // the matched object's table row, or -1
	Distance []float64  // arcsecs to the nearest object
}

func (r Result)NumMatched() int {
	n := 0
	for _, m := range r.Matched {
		if m { n++ }
	}
	return n
}

// MedianDistance of the matched detections, in arcsecs; NaN if none matched.
func (r Result)MedianDistance() float64 {
	d := []float64{}
	for i, m := range r.Matched {
		if m { d = append(d, r.Distance[i]) }
	}
	if len(d) == 0 {
		return math.NaN()
	}
	sort.Float64s(d)
	if len(d)%2 == 1 {
		return d[len(d)/2]
	}
	return 0.5 * (d[len(d)/2-1] + d[len(d)/2])
}

// Match associates each detection with its nearest simulated object,
// if that object is within `radius` arcsecs. It returns a copy of the
// table whose `match` column points back at the detections; when several
// detections land on one object, the closest wins.
func Match(r *results.Results, cat *Catalog, radius float64) (results.ObjectTable, Result, error) {
	res := Result{
		Matched:  make([]bool, len(cat.Rows)),
		Indices:  make([]int, len(cat.Rows)),
		Distance: make([]float64, len(cat.Rows)),
	}
	table := make(results.ObjectTable, len(r.Table))
	copy(table, r.Table)
	for i := range table {
		table[i].Match = -1
	}

	if len(table) == 0 {
		for i := range res.Indices {
			res.Indices[i] = -1
			res.Distance[i] = math.Inf(1)
		}
		return table, res, nil
	}
	if r.PixelScale <= 0 {
		return nil, res, fmt.Errorf("match: bad pixel scale %v", r.PixelScale)
	}

	// The tree holds the simulated centroids in arcsecs, with the table
	// row appended so we can find our way back.
	pts := make(kdtree.Points, len(table))
	for i, o := range table {
		pts[i] = kdtree.Point{o.Dx, o.Dy, float64(i)}
	}
	tree := kdtree.New(centroids(pts), false)

	best := map[int]float64{}
	for i, det := range cat.Rows {
		x, y := det.Position()
		q := kdtree.Point{
			(x - 0.5*float64(r.ImageWidth)) * r.PixelScale,
			(y - 0.5*float64(r.ImageHeight)) * r.PixelScale,
			0,
		}
		nearest, _ := tree.Nearest(centroid(q))
		p := kdtree.Point(nearest.(centroid))
		row := int(p[2])
		dist := math.Hypot(p[0]-q[0], p[1]-q[1])

		res.Indices[i] = row
		res.Distance[i] = dist
		if dist > radius {
			res.Indices[i] = -1
			continue
		}
		res.Matched[i] = true

		if prev, exists := best[row]; !exists || dist < prev {
			best[row] = dist
			table[row].Match = i
		}
	}

	return table, res, nil
}

// centroid is a kdtree.Point that only measures distance over x,y,
// ignoring the row number carried in the third slot.
type centroid kdtree.Point

func (c centroid)Compare(o kdtree.Comparable, d kdtree.Dim) float64 {
	return c[d] - o.(centroid)[d]
}
func (c centroid)Dims() int { return 2 }
func (c centroid)Distance(o kdtree.Comparable) float64 {
	q := o.(centroid)
	dx, dy := c[0]-q[0], c[1]-q[1]
	return dx*dx + dy*dy
}

// centroids adapts kdtree.Points to hold centroid values.
type centroids kdtree.Points

func (p centroids)Index(i int) kdtree.Comparable { return centroid(p[i]) }
func (p centroids)Len() int                      { return len(p) }
func (p centroids)Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p centroids)Pivot(d kdtree.Dim) int {
	return kdtree.Points(p).Pivot(d)
}
