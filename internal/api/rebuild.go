package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"hood-api/internal/geoio"
	"hood-api/internal/logger"
	"hood-api/internal/mece"
	"hood-api/internal/metrics"
	"hood-api/internal/partition"
	"hood-api/internal/store"
)

var errNoRawRows = errors.New("api: no raw neighborhoods for city")

// 分区响应的 Redis 缓存键
func partitionCacheKey(city, state string) string {
	return "hood:" + partition.Key(city, state)
}

// 文档注释：重建一个城市的 MECE 分区（服务内共享入口）
// 背景：HTTP /rebuild 与离线批量工具走同一条链路：取原始行 → 装配 → 事务替换落库 → 换入内存快照 → 废弃响应缓存。
// 约束：重建期间读路径持续使用旧快照；仅在落库成功后换入，保证对外原子可见。
func RebuildCity(ctx context.Context, st *store.Store, dyn *partition.Dynamic, rc *redis.Client, city, state string) (mece.Debug, int, time.Duration, error) {
	begin := time.Now()
	raw, err := st.FetchRaw(ctx, city, state)
	if err != nil {
		return mece.Debug{}, 0, 0, err
	}
	if len(raw) == 0 {
		return mece.Debug{}, 0, 0, errNoRawRows
	}
	res := mece.Build(raw)
	rows := make([]store.AssembledRow, 0, len(res.Items))
	for i, it := range res.Items {
		b, err := json.Marshal(geoio.ToGeoJSON(it.Polygons))
		if err != nil {
			return res.Debug, 0, 0, err
		}
		rows = append(rows, store.AssembledRow{
			ID:       it.ID,
			Name:     it.Name,
			City:     it.City,
			State:    it.State,
			Bounds:   string(b),
			Area:     it.Area,
			Position: i,
		})
	}
	if err := st.ReplacePartition(ctx, city, state, rows); err != nil {
		return res.Debug, 0, 0, err
	}
	dur := time.Since(begin)
	st.RecordBuild(ctx, city, state, res.Debug, dur)

	snap := &partition.Snapshot{City: city, State: state, BuiltAt: time.Now()}
	for _, it := range res.Items {
		snap.Items = append(snap.Items, partition.NewItem(it.ID, it.Name, it.City, it.State, it.Polygons))
	}
	if dyn != nil {
		dyn.Set(snap)
	}
	if rc != nil {
		_ = rc.Del(ctx, partitionCacheKey(city, state)).Err()
	}
	locateCache.Purge()

	metrics.BuildsTotal.Inc()
	metrics.BuildDurationMs.Observe(float64(dur.Milliseconds()))
	metrics.BuildCandidatesParsed.Add(float64(res.Debug.Parsed))
	metrics.BuildOverlapRemoved.Add(float64(res.Debug.OverlapRemoved))
	logger.L().Info("partition_rebuild_done",
		"city", city,
		"state", state,
		"total", res.Debug.Total,
		"parsed", res.Debug.Parsed,
		"overlap_removed", res.Debug.OverlapRemoved,
		"emitted", len(res.Items),
		"max_ring_points", res.Debug.MaxRingPoints,
		"duration_ms", dur.Milliseconds(),
	)
	return res.Debug, len(res.Items), dur, nil
}

// 文档注释：从数据库还原一个城市的内存快照（启动预热用）
// 背景：服务重启后直接读 _hood_mece 回填快照，避免重新装配；单行解析失败只跳过该行。
func LoadSnapshot(ctx context.Context, st *store.Store, city, state string) (*partition.Snapshot, error) {
	rows, err := st.LoadPartition(ctx, city, state)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	snap := &partition.Snapshot{City: city, State: state, BuiltAt: time.Now()}
	for _, r := range rows {
		ps, err := geoio.ParseBounds([]byte(r.Bounds))
		if err != nil {
			logger.L().Error("snapshot_row_parse_error", "id", r.ID, "err", err)
			continue
		}
		snap.Items = append(snap.Items, partition.NewItem(r.ID, r.Name, r.City, r.State, ps))
	}
	logger.L().Debug("snapshot_loaded", "city", city, "state", state, "items", len(snap.Items))
	return snap, nil
}
