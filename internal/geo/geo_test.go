package geo

import (
	"math"
	"testing"
)

func square(minLng, minLat, size float64) Ring {
	return Ring{
		{Lat: minLat, Lng: minLng},
		{Lat: minLat, Lng: minLng + size},
		{Lat: minLat + size, Lng: minLng + size},
		{Lat: minLat + size, Lng: minLng},
		{Lat: minLat, Lng: minLng},
	}
}

func TestRingArea(t *testing.T) {
	cases := []struct {
		name string
		r    Ring
		want float64
	}{
		{"unit_square_ccw", square(0, 0, 1), 1},
		{"square_10", square(0, 0, 10), 100},
		{"degenerate_two_points", Ring{{0, 0}, {1, 1}}, 0},
	}
	for _, c := range cases {
		got := math.Abs(RingArea(c.r))
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%s: area %v, want %v", c.name, got, c.want)
		}
	}
	// 顺时针环面积为负，绝对值一致
	cw := Ring{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 0}, {Lat: 1, Lng: 1}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 0}}
	if a := RingArea(cw); a >= 0 {
		t.Fatalf("clockwise ring should have negative signed area, got %v", a)
	}
}

func TestRingAreaOpenRing(t *testing.T) {
	// 未闭合的环由公式隐式补边
	open := Ring{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 2}, {Lat: 2, Lng: 2}, {Lat: 2, Lng: 0}}
	if got := math.Abs(RingArea(open)); math.Abs(got-4) > 1e-9 {
		t.Fatalf("open square area = %v, want 4", got)
	}
}

func TestGroupAreaSumsRingsWithoutHoleSubtraction(t *testing.T) {
	outer := square(0, 0, 10)
	hole := square(2, 2, 2)
	ps := PolygonSet{{outer, hole}}
	// 洞不扣减：100 + 4
	if got := GroupArea(ps); math.Abs(got-104) > 1e-9 {
		t.Fatalf("group area = %v, want 104", got)
	}
}

func TestNormalizeDropsDegenerateRings(t *testing.T) {
	ps := PolygonSet{
		{square(0, 0, 1), Ring{{0, 0}, {1, 1}}},         // 第二环退化
		{Ring{{0, 0}, {1, 1}, {2, 2}}},                  // 闭合后 4 点但共线，保留（面积判定不在此层）
		{Ring{{Lat: math.NaN(), Lng: 0}, {0, 1}, {1, 1}, {0, 0}}}, // NaN 丢弃
		{},
	}
	out := Normalize(ps)
	if len(out) != 2 {
		t.Fatalf("expect 2 surviving polygons, got %d", len(out))
	}
	if len(out[0]) != 1 {
		t.Fatalf("degenerate hole must be dropped, got %d rings", len(out[0]))
	}
	for _, poly := range out {
		for _, r := range poly {
			if len(r) < 4 || !r.Closed() {
				t.Fatalf("normalized ring must be closed with >=4 points")
			}
		}
	}
}

func TestBBox(t *testing.T) {
	ps := PolygonSet{{square(-3, 2, 5)}}
	b := BBoxOf(ps)
	want := BBox{-3, 2, 2, 7}
	if b != want {
		t.Fatalf("bbox = %v, want %v", b, want)
	}
	if !b.Contains(LatLng{Lat: 4, Lng: 0}) {
		t.Fatalf("interior point must be inside bbox")
	}
	if b.Contains(LatLng{Lat: 10, Lng: 0}) {
		t.Fatalf("outside point must not be inside bbox")
	}
}

func TestConvexHullContainsAllPoints(t *testing.T) {
	pts := []LatLng{
		{Lat: 0, Lng: 0}, {Lat: 0, Lng: 10}, {Lat: 10, Lng: 10}, {Lat: 10, Lng: 0},
		{Lat: 5, Lng: 5}, {Lat: 2, Lng: 7}, {Lat: 9, Lng: 1}, {Lat: 5, Lng: 9.5},
	}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull of square + interior points should have 4 vertices, got %d", len(hull))
	}
	ring := Ring(hull).Close()
	for _, p := range pts {
		onEdge := false
		for _, h := range hull {
			if h == p {
				onEdge = true
			}
		}
		if !onEdge && !PointInRing(p, ring) {
			t.Fatalf("point %v escapes its own hull", p)
		}
	}
}

func TestConvexHullDedupAndSmallInputs(t *testing.T) {
	two := []LatLng{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}
	if got := ConvexHull(two); len(got) != 2 {
		t.Fatalf("inputs of size <= 2 must pass through, got %d", len(got))
	}
	// 近重复点按 6 位小数合并
	dups := []LatLng{
		{Lat: 0, Lng: 0}, {Lat: 0.0000001, Lng: 0.0000001},
		{Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 0},
	}
	if got := ConvexHull(dups); len(got) != 4 {
		t.Fatalf("expected 4 hull vertices after dedup, got %d", len(got))
	}
}

func TestCentroid(t *testing.T) {
	c := Centroid(square(0, 0, 10))
	if c == nil {
		t.Fatal("centroid of square must not be nil")
	}
	if math.Abs(c.Lat-5) > 1e-9 || math.Abs(c.Lng-5) > 1e-9 {
		t.Fatalf("centroid = %v, want (5,5)", *c)
	}
	if Centroid(Ring{{0, 0}, {1, 1}}) != nil {
		t.Fatal("centroid of <3 points must be nil")
	}
}

func TestCentroidDegenerateSliver(t *testing.T) {
	// 共线长条面积近零，回退为顶点均值
	r := Ring{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 2}, {Lat: 0, Lng: 0}}
	c := Centroid(r)
	if c == nil {
		t.Fatal("sliver centroid must fall back, not be nil")
	}
	if math.Abs(c.Lat) > 1e-9 || math.Abs(c.Lng-1) > 1e-9 {
		t.Fatalf("mean fallback = %v, want (0,1)", *c)
	}
}

func TestPointInRingSquare(t *testing.T) {
	ring := Ring{
		{Lat: 0, Lng: 0}, {Lat: 10, Lng: 0}, {Lat: 10, Lng: 10},
		{Lat: 0, Lng: 10}, {Lat: 0, Lng: 0},
	}
	if !PointInRing(LatLng{Lat: 5, Lng: 5}, ring) {
		t.Fatal("(5,5) must be inside the square")
	}
	if PointInRing(LatLng{Lat: 15, Lng: 15}, ring) {
		t.Fatal("(15,15) must be outside the square")
	}
}

func TestPointInPolygonHole(t *testing.T) {
	poly := PolygonRings{square(0, 0, 10), square(4, 4, 2)}
	if !PointInPolygon(LatLng{Lat: 1, Lng: 1}, poly) {
		t.Fatal("point outside hole must hit")
	}
	if PointInPolygon(LatLng{Lat: 5, Lng: 5}, poly) {
		t.Fatal("point inside hole must miss")
	}
	if !PointInSet(LatLng{Lat: 1, Lng: 1}, PolygonSet{poly}) {
		t.Fatal("set-level hit expected")
	}
}
