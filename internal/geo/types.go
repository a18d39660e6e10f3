// 包 geo：几何基础类型与原语（经纬度点、环、多边形），为简化、裁剪与空间查询提供统一表达
package geo

import "math"

// LatLng：地理坐标点（WGS84 度）
type LatLng struct {
	Lat float64
	Lng float64
}

// Ring：闭合折线（首尾点相同），作为多边形外环或洞
type Ring []LatLng

// PolygonRings：单个多边形的环集合，第一环为外环，其余为洞
type PolygonRings []Ring

// PolygonSet：多面集合（MultiPolygon 的内部表达）
type PolygonSet []PolygonRings

// Closed：判断环是否闭合（首尾点相同）
func (r Ring) Closed() bool {
	if len(r) < 2 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// Close：闭合环（追加首点副本），已闭合时原样返回
// 约束：不修改入参，必要时返回新切片
func (r Ring) Close() Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	out := make(Ring, 0, len(r)+1)
	out = append(out, r...)
	out = append(out, r[0])
	return out
}

// Finite：检查环内坐标是否全部为有限值
// 背景：NaN/Inf 一旦进入裁剪引擎会污染全部后续结果，需在入口拦截
func (r Ring) Finite() bool {
	for _, p := range r {
		if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
			return false
		}
	}
	return true
}

// 文档注释：多边形集合规范化
// 背景：原始描边数据存在退化环（闭合后不足 4 点）与非法坐标；统一在此丢弃，保证下游环均可参与面积与裁剪计算。
// 约束：不修改入参；全部环被丢弃的多边形整体剔除；返回 nil 表示集合为空。
func Normalize(ps PolygonSet) PolygonSet {
	var out PolygonSet
	for _, poly := range ps {
		var kept PolygonRings
		for _, r := range poly {
			c := r.Close()
			if len(c) < 4 || !c.Finite() {
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// BBox：包围盒，minLng, minLat, maxLng, maxLat
type BBox [4]float64

// BBoxOf：计算多边形集合的包围盒（仅外环参与）
func BBoxOf(ps PolygonSet) BBox {
	b := BBox{math.MaxFloat64, math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	for _, poly := range ps {
		if len(poly) == 0 {
			continue
		}
		for _, p := range poly[0] {
			if p.Lng < b[0] {
				b[0] = p.Lng
			}
			if p.Lat < b[1] {
				b[1] = p.Lat
			}
			if p.Lng > b[2] {
				b[2] = p.Lng
			}
			if p.Lat > b[3] {
				b[3] = p.Lat
			}
		}
	}
	return b
}

// Contains：点是否落在包围盒内（含边界）
func (b BBox) Contains(p LatLng) bool {
	return p.Lng >= b[0] && p.Lng <= b[2] && p.Lat >= b[1] && p.Lat <= b[3]
}
