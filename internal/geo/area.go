package geo

import "math"

// RingArea：鞋带公式计算有符号面积（度平方）
// 背景：社区范围尺度下平面近似足够；符号由环的绕向决定，排序等场景取绝对值
func RingArea(r Ring) float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n-1; i++ {
		sum += r[i].Lng*r[i+1].Lat - r[i+1].Lng*r[i].Lat
	}
	// 未闭合时补最后一条边
	if r[0] != r[n-1] {
		sum += r[n-1].Lng*r[0].Lat - r[0].Lng*r[n-1].Lat
	}
	return sum / 2
}

// GroupArea：多边形集合的粗面积，所有环面积绝对值之和
// 约束：洞不做扣减，仅作为装配排序的优先级键使用，不可当作真实面积
func GroupArea(ps PolygonSet) float64 {
	total := 0.0
	for _, poly := range ps {
		for _, r := range poly {
			total += math.Abs(RingArea(r))
		}
	}
	return total
}
