package geo

import (
	"math"
	"testing"
)

// 构造带冗余共线点的闭合方形环
func denseSquare(step float64) Ring {
	var r Ring
	for x := 0.0; x < 10; x += step {
		r = append(r, LatLng{Lat: 0, Lng: x})
	}
	for y := 0.0; y < 10; y += step {
		r = append(r, LatLng{Lat: y, Lng: 10})
	}
	for x := 10.0; x > 0; x -= step {
		r = append(r, LatLng{Lat: 10, Lng: x})
	}
	for y := 10.0; y > 0; y -= step {
		r = append(r, LatLng{Lat: y, Lng: 0})
	}
	return r.Close()
}

func TestSimplifyRingCollapsesCollinear(t *testing.T) {
	// 各边带共线中点的方形，简化后只剩四角与闭合点
	r := Ring{
		{Lat: 0, Lng: 0}, {Lat: 0, Lng: 5}, {Lat: 0, Lng: 10},
		{Lat: 5, Lng: 10}, {Lat: 10, Lng: 10}, {Lat: 10, Lng: 5},
		{Lat: 10, Lng: 0}, {Lat: 0, Lng: 0},
	}
	out := SimplifyRing(r, 0.001)
	if len(out) != 5 {
		t.Fatalf("expect 5 points for square (4 corners + closure), got %d", len(out))
	}
	if !out.Closed() {
		t.Fatalf("simplified ring must stay closed")
	}
}

func TestSimplifyRingNeverIncreasesPointCount(t *testing.T) {
	rings := []Ring{
		denseSquare(0.25),
		{{0, 0}, {1, 5}, {0, 10}, {-1, 5}, {0, 0}},
		{{0, 0}, {0, 1}, {1, 1}, {0, 0}},
	}
	for _, r := range rings {
		for _, tol := range []float64{0, 0.0001, 0.01, 1, 100} {
			out := SimplifyRing(r, tol)
			if len(out) > len(r) {
				t.Fatalf("tol=%v: output %d points, input %d", tol, len(out), len(r))
			}
		}
	}
}

func TestSimplifyRingIdempotent(t *testing.T) {
	r := denseSquare(0.5)
	once := SimplifyRing(r, 0.001)
	twice := SimplifyRing(once, 0.001)
	if len(once) != len(twice) {
		t.Fatalf("re-simplify changed point count: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("re-simplify changed point %d: %v -> %v", i, once[i], twice[i])
		}
	}
}

func TestSimplifyRingRefusesDegeneration(t *testing.T) {
	// 大容差会把三角形压成两点，必须回退原环
	r := Ring{{0, 0}, {0, 0.001}, {0.001, 0.001}, {0, 0}}
	out := SimplifyRing(r, 10)
	if len(out) != len(r) {
		t.Fatalf("expected original ring back, got %d points", len(out))
	}
}

func TestSimplifyRingZeroLengthSegment(t *testing.T) {
	// 首尾重合的开折线触发零长线段回退路径
	d := perpDistance(LatLng{Lat: 3, Lng: 4}, LatLng{}, LatLng{})
	if math.Abs(d-5) > 1e-12 {
		t.Fatalf("expect euclidean fallback 5, got %v", d)
	}
}

func TestSimplifyRingAdaptiveCapOrFallback(t *testing.T) {
	small := denseSquare(0.5)
	if got := SimplifyRingAdaptive(small, DefaultMaxRingPoints, DefaultBaseTolerance, DefaultMaxTolerance); len(got) != len(small) {
		t.Fatalf("ring under cap must pass through unchanged")
	}
	big := denseSquare(0.004) // 10000 点量级
	out := SimplifyRingAdaptive(big, DefaultMaxRingPoints, DefaultBaseTolerance, DefaultMaxTolerance)
	if len(out) > DefaultMaxRingPoints && len(out) != len(big) {
		t.Fatalf("adaptive result must respect cap or fall back untouched, got %d of %d", len(out), len(big))
	}
	if len(out) > DefaultMaxRingPoints {
		t.Fatalf("square collapses trivially, cap must be met, got %d", len(out))
	}
}

func TestSimplifyRingAdaptiveDoNoHarm(t *testing.T) {
	// 锯齿环：每个点都携带超出最大容差的信息，无法在容差上限内达标
	var r Ring
	for i := 0; i < 2000; i++ {
		y := 0.0
		if i%2 == 1 {
			y = 0.5
		}
		r = append(r, LatLng{Lat: y, Lng: float64(i) * 0.001})
	}
	r = append(r, LatLng{Lat: -5, Lng: 1})
	r = r.Close()
	out := SimplifyRingAdaptive(r, 900, 0.0001, 0.0002)
	if len(out) > 900 && len(out) != len(r) {
		t.Fatalf("must return original ring when cap unreachable, got %d of %d", len(out), len(r))
	}
}
