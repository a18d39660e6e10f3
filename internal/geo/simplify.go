package geo

import "math"

// 简化参数默认值：目标点数上限与容差范围（度）
const (
	DefaultMaxRingPoints = 900
	DefaultBaseTolerance = 0.0001
	DefaultMaxTolerance  = 0.01
)

// 文档注释：环简化（Ramer–Douglas–Peucker）
// 背景：高精度描边的社区边界常带数万点，渲染与裁剪成本过高；RDP 在给定容差内有界地削减点数。
// 约束：被丢弃的点到简化折线的垂距不超过 tolerance；若结果不足 3 个独立点（闭合后 4 点），返回原环，
// 简化绝不允许把多边形退化成线或点。
func SimplifyRing(r Ring, tolerance float64) Ring {
	if len(r) < 3 {
		return r
	}
	open := r
	closed := r.Closed()
	if closed {
		open = r[:len(r)-1]
	}
	out := rdp(open, tolerance)
	if len(out) < 3 {
		return r
	}
	if closed {
		out = append(out, out[0])
	}
	return out
}

// 文档注释：自适应容差简化，保证输出点数不超过 maxPoints
// 背景：固定容差对病态密集环可能仍超出目标点数；从 base 开始按 1.5 倍递增容差重试。
// 约束：容差达到 maxTol 仍超限、或结果退化时，回退返回原环（宁可性能退化不损坏几何）。
func SimplifyRingAdaptive(r Ring, maxPoints int, baseTol, maxTol float64) Ring {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxRingPoints
	}
	if baseTol <= 0 {
		baseTol = DefaultBaseTolerance
	}
	if maxTol < baseTol {
		maxTol = DefaultMaxTolerance
	}
	if len(r) <= maxPoints {
		return r
	}
	tol := baseTol
	out := SimplifyRing(r, tol)
	for len(out) > maxPoints && tol < maxTol {
		tol *= 1.5
		out = SimplifyRing(r, tol)
	}
	if len(out) > maxPoints || len(out) < 4 {
		return r
	}
	return out
}

// 递归分治：取距首尾连线垂距最大的点作为分割点
func rdp(pts []LatLng, tol float64) []LatLng {
	if len(pts) <= 2 {
		return pts
	}
	end := len(pts) - 1
	dmax := 0.0
	idx := 0
	for i := 1; i < end; i++ {
		d := perpDistance(pts[i], pts[0], pts[end])
		if d > dmax {
			dmax = d
			idx = i
		}
	}
	if dmax > tol {
		left := rdp(pts[:idx+1], tol)
		right := rdp(pts[idx:], tol)
		// 拼接时去掉分割点的重复副本
		out := make([]LatLng, 0, len(left)+len(right)-1)
		out = append(out, left[:len(left)-1]...)
		out = append(out, right...)
		return out
	}
	return []LatLng{pts[0], pts[end]}
}

// perpDistance：点到线段的垂距，投影系数截断到 [0,1]
// 约束：线段退化为点时回退为点间欧氏距离
func perpDistance(p, a, b LatLng) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat
	segLen2 := dx*dx + dy*dy
	if segLen2 == 0 {
		return math.Hypot(p.Lng-a.Lng, p.Lat-a.Lat)
	}
	t := ((p.Lng-a.Lng)*dx + (p.Lat-a.Lat)*dy) / segLen2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	px := a.Lng + t*dx
	py := a.Lat + t*dy
	return math.Hypot(p.Lng-px, p.Lat-py)
}
