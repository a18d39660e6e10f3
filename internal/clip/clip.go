// 包 clip：多边形布尔运算引擎，基于 polyclip（Vatti 算法）提供并集与差集
// 背景：裁剪原语交由成熟库实现，本层只做表示转换、空操作数捷径与结果规范化
package clip

import (
	"fmt"

	polyclip "github.com/ctessum/polyclip-go"

	"hood-api/internal/geo"
	"hood-api/internal/logger"
)

// toClip：内部环表示转为裁剪库表示
// 约束：坐标轴序翻转为 (x=lng, y=lat)，仅在本包边界发生；闭合点不传入（库按隐式闭合处理）
func toClip(ps geo.PolygonSet) polyclip.Polygon {
	var out polyclip.Polygon
	for _, poly := range ps {
		for _, r := range poly {
			if r.Closed() {
				r = r[:len(r)-1]
			}
			ct := make(polyclip.Contour, 0, len(r))
			for _, p := range r {
				ct = append(ct, polyclip.Point{X: p.Lng, Y: p.Lat})
			}
			out = append(out, ct)
		}
	}
	return out
}

// fromClip：裁剪结果转回内部表示并规范化
// 背景：裁剪输出是不分组的轮廓列表，需按包含深度重建外环/洞结构：
// 被奇数个其他轮廓包含的是洞，挂到包含它的最小外环；偶数深度的为独立外环。
func fromClip(p polyclip.Polygon) geo.PolygonSet {
	var rings []geo.Ring
	for _, ct := range p {
		r := make(geo.Ring, 0, len(ct)+1)
		for _, pt := range ct {
			r = append(r, geo.LatLng{Lat: pt.Y, Lng: pt.X})
		}
		r = r.Close()
		if len(r) >= 4 {
			rings = append(rings, r)
		}
	}
	if len(rings) == 0 {
		return nil
	}
	depth := make([]int, len(rings))
	for i, r := range rings {
		for j, other := range rings {
			if i == j {
				continue
			}
			if geo.PointInRing(r[0], other) {
				depth[i]++
			}
		}
	}
	var out geo.PolygonSet
	outerIdx := make([]int, 0, len(rings))
	for i := range rings {
		if depth[i]%2 == 0 {
			out = append(out, geo.PolygonRings{rings[i]})
			outerIdx = append(outerIdx, i)
		}
	}
	for i := range rings {
		if depth[i]%2 == 0 {
			continue
		}
		// 洞挂到包含它、面积最小的外环
		best := -1
		bestArea := 0.0
		for k, oi := range outerIdx {
			if !geo.PointInRing(rings[i][0], rings[oi]) {
				continue
			}
			a := absArea(rings[oi])
			if best == -1 || a < bestArea {
				best = k
				bestArea = a
			}
		}
		if best >= 0 {
			out[best] = append(out[best], rings[i])
		}
	}
	return geo.Normalize(out)
}

func absArea(r geo.Ring) float64 {
	a := geo.RingArea(r)
	if a < 0 {
		return -a
	}
	return a
}

// Union：并集，空操作数直接返回另一方
func Union(a, b geo.PolygonSet) (geo.PolygonSet, error) {
	if len(a) == 0 {
		return b, nil
	}
	if len(b) == 0 {
		return a, nil
	}
	return construct(polyclip.UNION, a, b)
}

// Difference：差集 a - clip，空裁剪集返回 a 本身
func Difference(a, clipSet geo.PolygonSet) (geo.PolygonSet, error) {
	if len(a) == 0 {
		return nil, nil
	}
	if len(clipSet) == 0 {
		return a, nil
	}
	return construct(polyclip.DIFFERENCE, a, clipSet)
}

// Intersection：交集，空操作数结果为空
func Intersection(a, b geo.PolygonSet) (geo.PolygonSet, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}
	return construct(polyclip.INTERSECTION, a, b)
}

// construct：调用裁剪库并吸收其对病态输入的 panic
// 背景：自交或非法环可能使扫描线内部状态崩溃；按单次运算失败上抛，由装配层决定丢弃策略
func construct(op polyclip.Op, a, b geo.PolygonSet) (out geo.PolygonSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Debug("clip_panic", "op", int(op), "reason", fmt.Sprint(r))
			out = nil
			err = fmt.Errorf("clip: construct failed: %v", r)
		}
	}()
	res := toClip(a).Construct(op, toClip(b))
	return fromClip(res), nil
}
