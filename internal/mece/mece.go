// 包 mece：将相互重叠的社区多边形装配为互斥且完备（MECE）的命名分区
// 背景：原始边界各自独立描绘，存在重叠、嵌套与病态密集点；渲染与归属查询要求分区互不重叠。
// 策略：面积小者优先占地，大而粗的区域只保留未被占用的部分；顺序确定则结果确定。
package mece

import (
	"sort"

	"hood-api/internal/clip"
	"hood-api/internal/geo"
	"hood-api/internal/geoio"
	"hood-api/internal/logger"
)

// Input：装配输入记录，bounds 为不透明几何 blob（GeoJSON 或 EWKB 十六进制），只读
type Input struct {
	ID     string
	Name   string
	City   string
	State  string
	Bounds []byte
}

// Output：装配输出记录，每条对应一个在装配中存活的输入
type Output struct {
	ID       string
	Name     string
	City     string
	State    string
	Polygons geo.PolygonSet
	Area     float64
}

// Debug：装配过程计数，仅供观测，不参与控制流
type Debug struct {
	Total          int
	Parsed         int
	OverlapRemoved int
	MaxRingPoints  int
}

// Result：装配结果，Items 按装配顺序（面积升序）排列
type Result struct {
	Items []Output
	Debug Debug
}

// 内部候选：解析与简化后的中间形态
type candidate struct {
	in   Input
	pg   geo.PolygonSet
	area float64
}

// 文档注释：构建 MECE 分区
// 背景：解析 → 规范化 → 自适应简化 → 面积升序（同面积按名称字典序）→ 顺序折叠装配。
// 折叠维护 occupied 多面累加器：候选先对 occupied 求差，残余为空的候选整体丢弃并计数；
// 残余非空则以残余为有效几何，并将其并入 occupied。
// 约束：单候选的解析/裁剪失败只丢弃该候选，绝不中断整批；occupied 由本函数独占，调用结束即弃。
func Build(inputs []Input) Result {
	res := Result{Debug: Debug{Total: len(inputs)}}

	var cands []candidate
	for _, in := range inputs {
		pg, err := geoio.ParseBounds(in.Bounds)
		if err != nil {
			logger.L().Debug("mece_parse_drop", "id", in.ID, "name", in.Name, "err", err)
			continue
		}
		pg = simplifySet(pg, &res.Debug)
		if len(pg) == 0 {
			logger.L().Debug("mece_simplify_drop", "id", in.ID, "name", in.Name)
			continue
		}
		cands = append(cands, candidate{in: in, pg: pg, area: geo.GroupArea(pg)})
	}
	res.Debug.Parsed = len(cands)

	// 排序是承重墙：先到先得的顺序决定争议区域归谁，改动即改变语义
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].area != cands[j].area {
			return cands[i].area < cands[j].area
		}
		return cands[i].in.Name < cands[j].in.Name
	})

	var occupied geo.PolygonSet
	for _, c := range cands {
		effective := c.pg
		if len(occupied) > 0 {
			exclusive, err := clip.Difference(c.pg, occupied)
			if err != nil {
				// 裁剪失败按整体被占处理，丢弃该候选，避免污染累加器
				logger.L().Debug("mece_clip_drop", "id", c.in.ID, "name", c.in.Name, "err", err)
				res.Debug.OverlapRemoved++
				continue
			}
			if len(exclusive) == 0 {
				logger.L().Debug("mece_subsumed_drop", "id", c.in.ID, "name", c.in.Name)
				res.Debug.OverlapRemoved++
				continue
			}
			effective = exclusive
		}
		next, err := clip.Union(occupied, effective)
		if err != nil {
			logger.L().Debug("mece_union_drop", "id", c.in.ID, "name", c.in.Name, "err", err)
			res.Debug.OverlapRemoved++
			continue
		}
		occupied = next
		res.Items = append(res.Items, Output{
			ID:       c.in.ID,
			Name:     c.in.Name,
			City:     c.in.City,
			State:    c.in.State,
			Polygons: effective,
			Area:     geo.GroupArea(effective),
		})
	}
	logger.L().Debug("mece_build_done",
		"total", res.Debug.Total,
		"parsed", res.Debug.Parsed,
		"overlap_removed", res.Debug.OverlapRemoved,
		"emitted", len(res.Items),
	)
	return res
}

// simplifySet：对集合内每个环做自适应简化，退化环剔除
func simplifySet(ps geo.PolygonSet, dbg *Debug) geo.PolygonSet {
	var out geo.PolygonSet
	for _, poly := range ps {
		var kept geo.PolygonRings
		for _, r := range poly {
			s := geo.SimplifyRingAdaptive(r, geo.DefaultMaxRingPoints, geo.DefaultBaseTolerance, geo.DefaultMaxTolerance)
			if len(s) < 4 {
				continue
			}
			if len(s) > dbg.MaxRingPoints {
				dbg.MaxRingPoints = len(s)
			}
			kept = append(kept, s)
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	return out
}
