package geo

import (
	"fmt"
	"sort"
)

// 文档注释：凸包（Andrew 单调链）
// 背景：用于标注位置估计与粗粒度包含测试；输入来自环采样点，可能带重复点。
// 约束：按固定精度（6 位小数）去重后再排序；点数不超过 2 时原样返回；
// 结果为逆时针、不闭合的点序列。
func ConvexHull(points []LatLng) []LatLng {
	if len(points) <= 2 {
		return points
	}
	// 定精度去重，避免描边抖动产生的近重复点干扰排序
	seen := make(map[string]struct{}, len(points))
	pts := make([]LatLng, 0, len(points))
	for _, p := range points {
		k := fmt.Sprintf("%.6f,%.6f", p.Lng, p.Lat)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		pts = append(pts, p)
	}
	if len(pts) <= 2 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Lng != pts[j].Lng {
			return pts[i].Lng < pts[j].Lng
		}
		return pts[i].Lat < pts[j].Lat
	})
	// 下链
	var lower []LatLng
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	// 上链（逆序扫描）
	var upper []LatLng
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	// 两链末点互为对方起点，各去掉一个
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// 向量叉积：>0 表示 o→a→b 为严格左转
func cross(o, a, b LatLng) float64 {
	return (a.Lng-o.Lng)*(b.Lat-o.Lat) - (a.Lat-o.Lat)*(b.Lng-o.Lng)
}
