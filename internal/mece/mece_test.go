package mece

import (
	"fmt"
	"math"
	"testing"

	"hood-api/internal/clip"
	"hood-api/internal/geo"
)

func squareJSON(minLng, minLat, size float64) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"Polygon","coordinates":[[[%g,%g],[%g,%g],[%g,%g],[%g,%g],[%g,%g]]]}`,
		minLng, minLat,
		minLng+size, minLat,
		minLng+size, minLat+size,
		minLng, minLat+size,
		minLng, minLat,
	))
}

func TestBuildEndToEnd(t *testing.T) {
	// A：小方块（面积 4）；B：完全覆盖 A 的大方块（面积 100）；C：不相交方块（面积 9）
	inputs := []Input{
		{ID: "b", Name: "Broadmoor", City: "seattle", State: "wa", Bounds: squareJSON(0, 0, 10)},
		{ID: "a", Name: "Atlantic", City: "seattle", State: "wa", Bounds: squareJSON(2, 2, 2)},
		{ID: "c", Name: "Columbia", City: "seattle", State: "wa", Bounds: squareJSON(20, 20, 3)},
	}
	res := Build(inputs)
	if res.Debug.Total != 3 || res.Debug.Parsed != 3 {
		t.Fatalf("debug = %+v, want total=3 parsed=3", res.Debug)
	}
	if res.Debug.OverlapRemoved != 0 {
		t.Fatalf("B is truncated, not dropped: overlap_removed = %d", res.Debug.OverlapRemoved)
	}
	if len(res.Items) != 3 {
		t.Fatalf("expect 3 outputs, got %d", len(res.Items))
	}
	// 装配顺序为面积升序：A(4)、C(9)、B(96)
	if res.Items[0].ID != "a" || res.Items[1].ID != "c" || res.Items[2].ID != "b" {
		t.Fatalf("assembly order wrong: %s %s %s", res.Items[0].ID, res.Items[1].ID, res.Items[2].ID)
	}
	if math.Abs(res.Items[0].Area-4) > 1e-9 {
		t.Fatalf("A area = %v, want 4", res.Items[0].Area)
	}
	if math.Abs(res.Items[1].Area-9) > 1e-9 {
		t.Fatalf("C area = %v, want 9", res.Items[1].Area)
	}
	// B 被扣掉 A 的占地：100 - 4 = 96（外环 100 + 洞 4 不是正确值，洞应被差集真实挖除）
	bArea := polygonTrueArea(res.Items[2].Polygons)
	if math.Abs(bArea-96) > 1e-9 {
		t.Fatalf("B-minus-A area = %v, want 96", bArea)
	}
}

// 外环面积减去洞面积的真实面积（仅测试用）
func polygonTrueArea(ps geo.PolygonSet) float64 {
	total := 0.0
	for _, poly := range ps {
		for i, r := range poly {
			a := math.Abs(geo.RingArea(r))
			if i == 0 {
				total += a
			} else {
				total -= a
			}
		}
	}
	return total
}

func TestBuildFullSubsumptionDropsCandidate(t *testing.T) {
	// D 与 E 完全同形；名称字典序决定 D 先装配，E 整体被占后丢弃
	inputs := []Input{
		{ID: "e", Name: "Eastlake", Bounds: squareJSON(0, 0, 1)},
		{ID: "d", Name: "Denny", Bounds: squareJSON(0, 0, 1)},
	}
	res := Build(inputs)
	if len(res.Items) != 1 {
		t.Fatalf("expect 1 output, got %d", len(res.Items))
	}
	if res.Items[0].ID != "d" {
		t.Fatalf("name tiebreak must pick Denny first, got %s", res.Items[0].ID)
	}
	if res.Debug.OverlapRemoved != 1 {
		t.Fatalf("overlap_removed = %d, want 1", res.Debug.OverlapRemoved)
	}
}

func TestBuildOutputsDisjoint(t *testing.T) {
	inputs := []Input{
		{ID: "1", Name: "n1", Bounds: squareJSON(0, 0, 4)},
		{ID: "2", Name: "n2", Bounds: squareJSON(2, 0, 4)},
		{ID: "3", Name: "n3", Bounds: squareJSON(1, 1, 6)},
	}
	res := Build(inputs)
	for i := range res.Items {
		for j := i + 1; j < len(res.Items); j++ {
			inter, err := clip.Intersection(res.Items[i].Polygons, res.Items[j].Polygons)
			if err != nil {
				t.Fatal(err)
			}
			if a := geo.GroupArea(inter); a > 1e-9 {
				t.Fatalf("outputs %s and %s overlap, area %v", res.Items[i].ID, res.Items[j].ID, a)
			}
		}
	}
}

func TestBuildAreaConservation(t *testing.T) {
	inputs := []Input{
		{ID: "1", Name: "n1", Bounds: squareJSON(0, 0, 4)},
		{ID: "2", Name: "n2", Bounds: squareJSON(2, 0, 4)},
		{ID: "3", Name: "n3", Bounds: squareJSON(10, 10, 2)},
	}
	res := Build(inputs)
	// 输入并集：4x4 ∪ 偏移 4x4（重叠 2x4=8）→ 24，加孤立 4 → 28
	var outTotal float64
	for _, it := range res.Items {
		outTotal += polygonTrueArea(it.Polygons)
	}
	if math.Abs(outTotal-28) > 1e-9 {
		t.Fatalf("output total area = %v, want 28 (union of inputs)", outTotal)
	}
}

func TestBuildDeterminism(t *testing.T) {
	// 输入列表顺序不同，输出必须一致（仅依赖面积与名称）
	a := []Input{
		{ID: "1", Name: "n1", Bounds: squareJSON(0, 0, 4)},
		{ID: "2", Name: "n2", Bounds: squareJSON(2, 0, 4)},
		{ID: "3", Name: "n3", Bounds: squareJSON(1, 1, 6)},
	}
	b := []Input{a[2], a[0], a[1]}
	r1 := Build(a)
	r2 := Build(b)
	if r1.Debug.OverlapRemoved != r2.Debug.OverlapRemoved || len(r1.Items) != len(r2.Items) {
		t.Fatalf("shape differs: %+v vs %+v", r1.Debug, r2.Debug)
	}
	for i := range r1.Items {
		if r1.Items[i].ID != r2.Items[i].ID {
			t.Fatalf("order differs at %d: %s vs %s", i, r1.Items[i].ID, r2.Items[i].ID)
		}
		if math.Abs(r1.Items[i].Area-r2.Items[i].Area) > 1e-12 {
			t.Fatalf("area differs for %s", r1.Items[i].ID)
		}
	}
}

func TestBuildDropsUnparseable(t *testing.T) {
	inputs := []Input{
		{ID: "ok", Name: "ok", Bounds: squareJSON(0, 0, 2)},
		{ID: "bad", Name: "bad", Bounds: []byte("db_corrupted_blob")},
		{ID: "empty", Name: "empty", Bounds: nil},
		{ID: "line", Name: "line", Bounds: []byte(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`)},
	}
	res := Build(inputs)
	if res.Debug.Total != 4 {
		t.Fatalf("total = %d", res.Debug.Total)
	}
	if res.Debug.Parsed != 1 || len(res.Items) != 1 || res.Items[0].ID != "ok" {
		t.Fatalf("only the valid candidate may survive: %+v", res.Debug)
	}
}
