package geoio

import (
	geojson "github.com/paulmach/go.geojson"

	"hood-api/internal/geo"
)

// 文档注释：内部环集合序列化为 GeoJSON MultiPolygon
// 背景：对外输出统一为 MultiPolygon，单多边形同样包一层；环按 [lng, lat] 轴序输出，外环在前。
// 约束：纯格式转换，无任何丢弃或修复逻辑；空集合返回空坐标的 MultiPolygon。
func ToGeoJSON(ps geo.PolygonSet) *geojson.Geometry {
	coords := make([][][][]float64, 0, len(ps))
	for _, poly := range ps {
		rings := make([][][]float64, 0, len(poly))
		for _, r := range poly {
			ring := make([][]float64, 0, len(r))
			for _, p := range r {
				ring = append(ring, []float64{p.Lng, p.Lat})
			}
			rings = append(rings, ring)
		}
		coords = append(coords, rings)
	}
	return geojson.NewMultiPolygonGeometry(coords...)
}
