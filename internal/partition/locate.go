package partition

import (
	"math"

	"hood-api/internal/geo"
)

// Hit：归属判定结果，Approx 表示由最近邻兜底而非几何命中
type Hit struct {
	Item   *Item
	Approx bool
	// 最近邻兜底时到标注点的距离（千米）；几何命中为 0
	DistanceKm float64
}

// 文档注释：点归属查询（包围盒过滤 → 射线法精确判定 → KD-Tree 最近邻兜底）
// 背景：分区互斥，几何命中至多一个社区；点落在缝隙或城市边缘时用标注点最近邻兜底并打近似标记。
// 约束：maxRadiusKm 限制兜底半径，避免远离城市的坐标被误归属；未命中返回 nil。
func (s *Snapshot) Locate(pt geo.LatLng, maxRadiusKm float64) *Hit {
	if s == nil {
		return nil
	}
	for i := range s.Items {
		it := &s.Items[i]
		if !it.BBox.Contains(pt) {
			continue
		}
		if geo.PointInSet(pt, it.Polys) {
			return &Hit{Item: it}
		}
	}
	if kd := s.kdRoot(); kd != nil && maxRadiusKm > 0 {
		idx, d := nearest(kd, pt)
		if idx >= 0 && d <= maxRadiusKm {
			return &Hit{Item: &s.Items[idx], Approx: true, DistanceKm: d}
		}
	}
	return nil
}

// 球面距离（Haversine），千米
func haversineKm(a, b geo.LatLng) float64 {
	const r = 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return r * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
