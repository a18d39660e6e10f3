package geo

import "math"

// 近零面积阈值：低于该值的环按退化长条处理，质心回退为顶点均值
const centroidAreaEpsilon = 1e-7

// 文档注释：多边形质心（面积加权）
// 背景：用于地图标注点与最近邻兜底的代表点；标准质心公式对凹多边形同样成立。
// 约束：点数不足 3 返回 nil；|面积| 低于阈值时除法不稳定，回退为顶点算术平均。
func Centroid(r Ring) *LatLng {
	n := len(r)
	if r.Closed() {
		n--
	}
	if n < 3 {
		return nil
	}
	area := 0.0
	cx := 0.0
	cy := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a := r[i].Lng*r[j].Lat - r[j].Lng*r[i].Lat
		area += a
		cx += (r[i].Lng + r[j].Lng) * a
		cy += (r[i].Lat + r[j].Lat) * a
	}
	area /= 2
	if math.Abs(area) < centroidAreaEpsilon {
		// 退化长条：均值位置依然落在附近，足够做标注
		var sx, sy float64
		for i := 0; i < n; i++ {
			sx += r[i].Lng
			sy += r[i].Lat
		}
		return &LatLng{Lat: sy / float64(n), Lng: sx / float64(n)}
	}
	return &LatLng{Lat: cy / (6 * area), Lng: cx / (6 * area)}
}
