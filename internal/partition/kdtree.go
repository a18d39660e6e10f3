package partition

import (
	"math"

	"hood-api/internal/geo"
)

// 文档注释：标注点 KD-Tree（二维经纬，交替分割）
// 背景：几何未命中时按标注点最近邻兜底；树在快照内惰性构建一次。
// 约束：仅支持最近一个点查询；节点保存 Items 下标而非副本。
type kdNode struct {
	idx int
	pt  geo.LatLng
	ax  int // 0:lng, 1:lat
	l   *kdNode
	r   *kdNode
}

type kdEntry struct {
	idx int
	pt  geo.LatLng
}

// kdRoot：取快照的 KD-Tree，首次访问时构建
func (s *Snapshot) kdRoot() *kdNode {
	s.kdOnce.Do(func() {
		entries := make([]kdEntry, 0, len(s.Items))
		for i := range s.Items {
			entries = append(entries, kdEntry{idx: i, pt: s.Items[i].Label})
		}
		s.kd = buildKD(entries, 0)
	})
	return s.kd
}

func buildKD(es []kdEntry, depth int) *kdNode {
	if len(es) == 0 {
		return nil
	}
	ax := depth % 2
	mid := len(es) / 2
	selectNth(es, mid, ax)
	node := &kdNode{idx: es[mid].idx, pt: es[mid].pt, ax: ax}
	node.l = buildKD(es[:mid], depth+1)
	node.r = buildKD(es[mid+1:], depth+1)
	return node
}

// 原地第 n 小选择，避免整体排序
func selectNth(a []kdEntry, n, ax int) {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := kdPartition(a, lo, hi, (lo+hi)/2, ax)
		if p == n {
			return
		}
		if n < p {
			hi = p - 1
		} else {
			lo = p + 1
		}
	}
}

func kdPartition(a []kdEntry, lo, hi, pivot, ax int) int {
	pv := a[pivot]
	a[pivot], a[hi] = a[hi], a[pivot]
	i := lo
	for j := lo; j < hi; j++ {
		if kdLess(a[j].pt, pv.pt, ax) {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

func kdLess(x, y geo.LatLng, ax int) bool {
	if ax == 0 {
		return x.Lng < y.Lng
	}
	return x.Lat < y.Lat
}

// nearest：最近邻查询，返回 Items 下标与距离（千米）
func nearest(node *kdNode, pt geo.LatLng) (int, float64) {
	best := -1
	bestD := math.MaxFloat64
	var dfs func(n *kdNode)
	dfs = func(n *kdNode) {
		if n == nil {
			return
		}
		d := haversineKm(pt, n.pt)
		if d < bestD {
			bestD = d
			best = n.idx
		}
		var key, q float64
		if n.ax == 0 {
			key, q = pt.Lng, n.pt.Lng
		} else {
			key, q = pt.Lat, n.pt.Lat
		}
		first, second := n.l, n.r
		if key > q {
			first, second = n.r, n.l
		}
		dfs(first)
		// 分割面到查询点的距离小于当前最优时才需要访问另一侧（1° ≈ 111km）
		if math.Abs(key-q) < bestD/111.0 {
			dfs(second)
		}
	}
	dfs(node)
	return best, bestD
}
