// 包 partition：装配结果的内存读路径（快照、点归属判定、最近邻兜底、热点缓存）
package partition

import (
	"strings"
	"sync"
	"time"

	"hood-api/internal/geo"
)

// Item：分区内单个社区，几何为装配输出的互斥多面
type Item struct {
	ID    string
	Name  string
	City  string
	State string
	Polys geo.PolygonSet
	BBox  geo.BBox
	Label geo.LatLng // 标注点：最大外环的质心
}

// Snapshot：一个城市分区的只读快照，供查询期共享
type Snapshot struct {
	City    string
	State   string
	Items   []Item
	BuiltAt time.Time

	kdOnce sync.Once
	kd     *kdNode

	hullOnce sync.Once
	hull     []geo.LatLng
}

// Hull：整城覆盖范围的凸包（所有社区外环顶点的凸包），懒构建
func (s *Snapshot) Hull() []geo.LatLng {
	s.hullOnce.Do(func() {
		var pts []geo.LatLng
		for i := range s.Items {
			for _, pr := range s.Items[i].Polys {
				if len(pr) > 0 {
					pts = append(pts, pr[0]...)
				}
			}
		}
		s.hull = geo.ConvexHull(pts)
	})
	return s.hull
}

// Key：城市快照键，小写 city|state
func Key(city, state string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(state))
}

// NewItem：构造分区项并补齐派生字段（包围盒与标注点）
func NewItem(id, name, city, state string, ps geo.PolygonSet) Item {
	it := Item{ID: id, Name: name, City: city, State: state, Polys: ps, BBox: geo.BBoxOf(ps)}
	// 标注点取最大外环质心；退化时退回包围盒中心
	var biggest geo.Ring
	bestArea := 0.0
	for _, poly := range ps {
		if len(poly) == 0 {
			continue
		}
		a := geo.RingArea(poly[0])
		if a < 0 {
			a = -a
		}
		if a >= bestArea {
			bestArea = a
			biggest = poly[0]
		}
	}
	if c := geo.Centroid(biggest); c != nil {
		it.Label = *c
	} else {
		it.Label = geo.LatLng{Lat: (it.BBox[1] + it.BBox[3]) / 2, Lng: (it.BBox[0] + it.BBox[2]) / 2}
	}
	return it
}
