package clip

import (
	"math"
	"testing"

	"hood-api/internal/geo"
)

func square(minLng, minLat, size float64) geo.Ring {
	return geo.Ring{
		{Lat: minLat, Lng: minLng},
		{Lat: minLat, Lng: minLng + size},
		{Lat: minLat + size, Lng: minLng + size},
		{Lat: minLat + size, Lng: minLng},
		{Lat: minLat, Lng: minLng},
	}
}

func set(rings ...geo.Ring) geo.PolygonSet {
	var ps geo.PolygonSet
	for _, r := range rings {
		ps = append(ps, geo.PolygonRings{r})
	}
	return ps
}

func TestUnionEmptyShortcuts(t *testing.T) {
	a := set(square(0, 0, 1))
	if got, err := Union(nil, a); err != nil || len(got) != 1 {
		t.Fatalf("union(nil,a) = %v, %v", got, err)
	}
	if got, err := Union(a, nil); err != nil || len(got) != 1 {
		t.Fatalf("union(a,nil) = %v, %v", got, err)
	}
}

func TestUnionDisjointKeepsBoth(t *testing.T) {
	a := set(square(0, 0, 1))
	b := set(square(5, 5, 1))
	got, err := Union(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("disjoint union should have 2 polygons, got %d", len(got))
	}
	if area := geo.GroupArea(got); math.Abs(area-2) > 1e-9 {
		t.Fatalf("union area = %v, want 2", area)
	}
}

func TestUnionOverlapMerges(t *testing.T) {
	a := set(square(0, 0, 2))
	b := set(square(1, 0, 2))
	got, err := Union(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("overlapping union should merge into 1 polygon, got %d", len(got))
	}
	// 2x2 + 2x2 - 1x2 重叠 = 6
	if area := geo.GroupArea(got); math.Abs(area-6) > 1e-9 {
		t.Fatalf("union area = %v, want 6", area)
	}
}

func TestDifferenceShortcutsAndSubtraction(t *testing.T) {
	a := set(square(0, 0, 10))
	if got, err := Difference(a, nil); err != nil || len(got) != 1 {
		t.Fatalf("difference(a,nil) must be a: %v, %v", got, err)
	}
	if got, err := Difference(nil, a); err != nil || got != nil {
		t.Fatalf("difference(nil,a) must be empty: %v, %v", got, err)
	}
	small := set(square(0, 0, 2))
	got, err := Difference(a, small)
	if err != nil {
		t.Fatal(err)
	}
	if area := geo.GroupArea(got); math.Abs(area-96) > 1e-9 {
		t.Fatalf("difference area = %v, want 96", area)
	}
}

func TestDifferenceFullSubsumption(t *testing.T) {
	a := set(square(2, 2, 1))
	big := set(square(0, 0, 10))
	got, err := Difference(a, big)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("fully covered subject must yield empty set, got %v", got)
	}
}

func TestDifferenceInteriorHoleRegrouped(t *testing.T) {
	outer := set(square(0, 0, 10))
	inner := set(square(4, 4, 2))
	got, err := Difference(outer, inner)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single polygon with a hole, got %d polygons", len(got))
	}
	if len(got[0]) != 2 {
		t.Fatalf("expected outer ring + 1 hole, got %d rings", len(got[0]))
	}
	// 洞内点不命中，环间点命中
	if geo.PointInPolygon(geo.LatLng{Lat: 5, Lng: 5}, got[0]) {
		t.Fatal("hole interior must not be inside result")
	}
	if !geo.PointInPolygon(geo.LatLng{Lat: 1, Lng: 1}, got[0]) {
		t.Fatal("ring annulus must be inside result")
	}
}

func TestIntersectionOfDisjointIsEmpty(t *testing.T) {
	got, err := Intersection(set(square(0, 0, 1)), set(square(5, 5, 1)))
	if err != nil {
		t.Fatal(err)
	}
	if geo.GroupArea(got) != 0 {
		t.Fatalf("disjoint intersection area must be 0, got %v", geo.GroupArea(got))
	}
}

func TestResultRingsNormalized(t *testing.T) {
	got, err := Union(set(square(0, 0, 2)), set(square(1, 1, 2)))
	if err != nil {
		t.Fatal(err)
	}
	for _, poly := range got {
		for _, r := range poly {
			if len(r) < 4 || !r.Closed() {
				t.Fatalf("engine must never return a ring below minimum point count")
			}
		}
	}
}
