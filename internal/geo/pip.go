package geo

// 文档注释：点入环判定（射线法 / Even-Odd）
// 背景：对装配后的社区多边形做归属判定；水平射线与各边求交并翻转 inside 标记。
// 约束：分母加极小量避免水平边除零产生 NaN；边界上的点结果不保证稳定。
func PointInRing(pt LatLng, ring Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x := pt.Lng
	y := pt.Lat
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if ((yi > y) != (yj > y)) && x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInPolygon：外环命中且不落入任一洞视为命中
func PointInPolygon(pt LatLng, poly PolygonRings) bool {
	if len(poly) == 0 {
		return false
	}
	if !PointInRing(pt, poly[0]) {
		return false
	}
	for i := 1; i < len(poly); i++ {
		if PointInRing(pt, poly[i]) {
			return false
		}
	}
	return true
}

// PointInSet：多面集合中任一多边形命中即命中
func PointInSet(pt LatLng, ps PolygonSet) bool {
	for _, poly := range ps {
		if PointInPolygon(pt, poly) {
			return true
		}
	}
	return false
}
