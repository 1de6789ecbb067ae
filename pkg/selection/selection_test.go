package selection

import(
	"errors"
	"reflect"
	"testing"
)

// A small in-memory table for tests.
type testTable map[string][]float64

func (tt testTable)NumRows() int {
	for _, col := range tt {
		return len(col)
	}
	return 0
}

func (tt testTable)Column(name string) ([]float64, bool) {
	col, exists := tt[name]
	return col, exists
}

func threeRows() testTable {
	return testTable{
		"db_id":  {1, 2, 3},
		"grp_id": {10, 10, 20},
		"dx":     {-1.5, 0.0, 4.0},
		"dy":     {2.0, -3.0, 0.5},
	}
}

func TestSelectGroupScenario(t *testing.T) {
	mask, err := Evaluate(threeRows(), ModeAnd, "grp_id==10")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(mask, []bool{true, true, false}) {
		t.Fatalf("mask = %v", mask)
	}
	if got := Indices(mask); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("indices = %v", got)
	}
}

func TestEvaluateOperators(t *testing.T) {
	tests := []struct {
		cut      string
		expected []bool
	}{
		{"db_id==2", []bool{false, true, false}},
		{"db_id != 2", []bool{true, false, true}},
		{"dx>=0", []bool{false, true, true}},
		{"dx<=0", []bool{true, true, false}},
		{"dx>0", []bool{false, false, true}},
		{"dx<0", []bool{true, false, false}},
		{"dy<-2.5", []bool{false, true, false}},
		{"ALL", []bool{true, true, true}},
		{"", []bool{true, true, true}},
		{"NONE", []bool{false, false, false}},
	}

	for _, tt := range tests {
		mask, err := Evaluate(threeRows(), ModeAnd, tt.cut)
		if err != nil {
			t.Errorf("Evaluate(%q) err: %v", tt.cut, err)
			continue
		}
		if !reflect.DeepEqual(mask, tt.expected) {
			t.Errorf("Evaluate(%q) = %v, expected %v", tt.cut, mask, tt.expected)
		}
	}
}

func TestAndOrMatchElementwiseCombination(t *testing.T) {
	table := threeRows()
	pairs := [][2]string{
		{"grp_id==10", "dx>=0"},
		{"dy<0", "db_id!=3"},
		{"dx<0", "NONE"},
		{"ALL", "dy>1"},
	}

	for _, p := range pairs {
		a, _ := Evaluate(table, ModeAnd, p[0])
		b, _ := Evaluate(table, ModeAnd, p[1])
		and, err := Evaluate(table, ModeAnd, p[0], p[1])
		if err != nil {
			t.Fatalf("and %v: %v", p, err)
		}
		or, err := Evaluate(table, ModeOr, p[0], p[1])
		if err != nil {
			t.Fatalf("or %v: %v", p, err)
		}
		for i := range a {
			if and[i] != (a[i] && b[i]) {
				t.Errorf("%v row %d: and=%v", p, i, and[i])
			}
			if or[i] != (a[i] || b[i]) {
				t.Errorf("%v row %d: or=%v", p, i, or[i])
			}
		}
	}
}

func TestNoneAlwaysEmpty(t *testing.T) {
	for _, table := range []testTable{threeRows(), {"db_id": {}}, {"db_id": {7}}} {
		mask, err := Evaluate(table, ModeAnd, "NONE")
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if len(mask) != table.NumRows() {
			t.Fatalf("mask length %d, expected %d", len(mask), table.NumRows())
		}
		for i, m := range mask {
			if m {
				t.Errorf("row %d selected by NONE", i)
			}
		}
	}
}

func TestInvalidCuts(t *testing.T) {
	bad := []string{"nosuch==1", "db_id=1", "db_id==abc", "==3", "1x>2", "db_id"}
	for _, cut := range bad {
		if _, err := Evaluate(threeRows(), ModeAnd, cut); !errors.Is(err, ErrInvalidSelection) {
			t.Errorf("Evaluate(%q) err = %v, expected ErrInvalidSelection", cut, err)
		}
	}

	if _, err := Evaluate(threeRows(), "xor", "ALL"); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("bad mode err = %v", err)
	}
	// NONE short-circuits before columns are looked up, but not before parsing
	if mask, err := Evaluate(threeRows(), ModeAnd, "NONE", "nosuch>1"); err != nil || !reflect.DeepEqual(mask, []bool{false, false, false}) {
		t.Errorf("NONE with unknown column: mask %v, err %v", mask, err)
	}
	if _, err := Evaluate(threeRows(), ModeAnd, "NONE", "db_id=1"); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("expected syntax error even with NONE, got %v", err)
	}
	if _, err := Evaluate(threeRows(), ModeOr, "NONE", "nosuch>1"); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("expected unknown column to fail in or mode, got %v", err)
	}
}

// A table whose id column also comes as exact integers.
type intTable struct {
	testTable
	ids []int64
}

func (it intTable)IntColumn(name string) ([]int64, bool) {
	if name != "db_id" {
		return nil, false
	}
	return it.ids, true
}

func TestIntegerCutsAreExact(t *testing.T) {
	// 2^53+1 and 2^53 are the same float64
	ids := []int64{9007199254740993, 9007199254740992}
	tbl := intTable{testTable{"db_id": {float64(ids[0]), float64(ids[1])}, "dx": {0.5, 1.5}}, ids}

	tests := []struct {
		cut  string
		want []bool
	}{
		{"db_id==9007199254740993", []bool{true, false}},
		{"db_id!=9007199254740993", []bool{false, true}},
		{"db_id>9007199254740992", []bool{true, false}},
		{"db_id<=9007199254740992", []bool{false, true}},
		{"dx>1", []bool{false, true}},
		{"db_id>=9.007e15", []bool{true, true}},
	}
	for _, test := range tests {
		mask, err := Evaluate(tbl, ModeAnd, test.cut)
		if err != nil {
			t.Errorf("%q: err %v", test.cut, err)
		} else if !reflect.DeepEqual(mask, test.want) {
			t.Errorf("%q: mask %v, expected %v", test.cut, mask, test.want)
		}
	}

	res, err := Select(tbl, Request{Objects:[]int64{9007199254740993}})
	if err != nil || !reflect.DeepEqual(res.Indices, []int{0}) {
		t.Errorf("select by id: %v, err %v", res.Indices, err)
	}
}

func TestSelectEngine(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		indices  []int
		warnings int
	}{
		{"nothing by default", Request{}, []int{}, 0},
		{"cut only", Request{Cuts:[]string{"dx>=0"}}, []int{1, 2}, 0},
		{"cuts anded", Request{Cuts:[]string{"dx>=0", "grp_id==10"}}, []int{1}, 0},
		{"group ored", Request{Cuts:[]string{"db_id==3"}, Groups:[]int64{10}}, []int{0, 1, 2}, 0},
		{"galaxy", Request{Objects:[]int64{2}}, []int{1}, 0},
		{"missing group warns", Request{Groups:[]int64{99}, Objects:[]int64{1}}, []int{0}, 1},
		{"missing galaxy warns", Request{Objects:[]int64{42, 43}}, []int{}, 2},
	}

	for _, tt := range tests {
		res, err := Select(threeRows(), tt.req)
		if err != nil {
			t.Errorf("%s: err %v", tt.name, err)
			continue
		}
		if !reflect.DeepEqual(res.Indices, tt.indices) {
			t.Errorf("%s: indices = %v, expected %v", tt.name, res.Indices, tt.indices)
		}
		if len(res.Warnings) != tt.warnings {
			t.Errorf("%s: warnings = %v", tt.name, res.Warnings)
		}
		if len(res.Mask) != 3 {
			t.Errorf("%s: mask length %d", tt.name, len(res.Mask))
		}
	}
}

func TestRegionCutsSelectInsideOnly(t *testing.T) {
	res, err := Select(threeRows(), Request{Cuts:RegionCuts(-2, 1, -5, 5)})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(res.Indices, []int{0, 1}) {
		t.Fatalf("indices = %v", res.Indices)
	}
}
