// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/redis/go-redis/v9"

	"hood-api/internal/geo"
	"hood-api/internal/geoio"
	"hood-api/internal/logger"
	"hood-api/internal/metrics"
	"hood-api/internal/partition"
	"hood-api/internal/store"
)

// 归属查询结果的进程内缓存：geohash(6) 粒度，约 1.2km×0.6km 共享一个答案
var locateCache = partition.NewLRU(0, 10*time.Minute)

// 最近邻兜底半径（千米），可由 LOCATE_MAX_RADIUS_KM 覆盖
func locateMaxRadiusKm() float64 {
	if v := os.Getenv("LOCATE_MAX_RADIUS_KM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return 4
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// 路由级请求计数与耗时观测
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		h(w, r)
		metrics.RequestsTotal.WithLabelValues(route).Inc()
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(begin).Milliseconds()))
	}
}

// 文档注释：构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 /api 前缀
// 背景：/neighborhoods 返回整城分区（Redis 缓存 24h），/locate 做点归属，/rebuild 管理员触发重建，/stats 查询计数。
// 约束：rc、mmdb 可为 nil，对应能力降级而非报错退出；dyn 必须非空。
func BuildRoutes(st *store.Store, rc *redis.Client, dyn *partition.Dynamic, mmdb *geoip2.Reader) *http.ServeMux {
	maxRadius := locateMaxRadiusKm()

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/neighborhoods", instrument("neighborhoods", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		city := r.URL.Query().Get("city")
		state := r.URL.Query().Get("state")
		if city == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing city"})
			return
		}
		if rc != nil {
			s, _ := rc.Get(ctx, partitionCacheKey(city, state)).Result()
			if s != "" {
				metrics.RedisHitsTotal.Inc()
				w.Header().Set("content-type", "application/json; charset=utf-8")
				w.Header().Set("cache-control", "no-store")
				_, _ = w.Write([]byte(s))
				_ = st.IncrStats(ctx)
				return
			}
			metrics.RedisMissesTotal.Inc()
		}
		snap := dyn.Get(city, state)
		if snap == nil || len(snap.Items) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no partition for city"})
			return
		}
		res := partitionResponse{
			City:    snap.City,
			State:   snap.State,
			BuiltAt: snap.BuiltAt.UTC().Format(time.RFC3339),
		}
		for _, p := range snap.Hull() {
			res.Hull = append(res.Hull, [2]float64{p.Lng, p.Lat})
		}
		for i := range snap.Items {
			it := &snap.Items[i]
			res.Items = append(res.Items, neighborhoodRecord{
				ID:       it.ID,
				Name:     it.Name,
				City:     it.City,
				State:    it.State,
				Bounds:   geoio.ToGeoJSON(it.Polys),
				LabelLat: it.Label.Lat,
				LabelLng: it.Label.Lng,
			})
		}
		if rc != nil {
			b, _ := json.Marshal(res)
			rc.Set(ctx, partitionCacheKey(city, state), string(b), time.Hour*24)
		}
		_ = st.IncrStats(ctx)
		writeJSON(w, http.StatusOK, res)
	}))

	apiMux.HandleFunc("/locate", instrument("locate", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()
		res := locateResult{Source: "query"}

		latS, lngS := q.Get("lat"), q.Get("lng")
		if latS != "" && lngS != "" {
			lat, err1 := strconv.ParseFloat(latS, 64)
			lng, err2 := strconv.ParseFloat(lngS, 64)
			if err1 != nil || err2 != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad lat/lng"})
				return
			}
			res.Lat, res.Lng = lat, lng
		} else {
			// 未携带坐标时回退到访问者 IP 的 GeoIP 定位
			if mmdb == nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing lat/lng"})
				return
			}
			ip := net.ParseIP(getClientIP(r))
			if ip == nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no client ip"})
				return
			}
			rec, err := mmdb.City(ip)
			if err != nil || rec == nil || (rec.Location.Latitude == 0 && rec.Location.Longitude == 0) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "geoip miss"})
				return
			}
			res.Lat, res.Lng = rec.Location.Latitude, rec.Location.Longitude
			res.Source = "geoip"
		}

		pt := geo.LatLng{Lat: res.Lat, Lng: res.Lng}
		city, state := q.Get("city"), q.Get("state")

		// geohash(6) 粒度缓存：同格内坐标共享归属答案
		cacheKey := partition.EncodeGeohash(pt.Lat, pt.Lng, 6) + "|" + partition.Key(city, state)
		if hit, ok := locateCache.Get(cacheKey); ok && hit.Item != nil {
			fillLocate(&res, &hit)
			metrics.LocateHitsTotal.Inc()
			_ = st.IncrStats(ctx)
			writeJSON(w, http.StatusOK, res)
			return
		}

		var snaps []*partition.Snapshot
		if city != "" {
			if s := dyn.Get(city, state); s != nil {
				snaps = append(snaps, s)
			}
		} else {
			snaps = dyn.All()
		}
		var hit *partition.Hit
		for _, s := range snaps {
			if h := s.Locate(pt, maxRadius); h != nil {
				// 精确命中直接定案；近似命中继续找是否有几何命中的快照
				if hit == nil || (!h.Approx && hit.Approx) {
					hit = h
				}
				if !h.Approx {
					break
				}
			}
		}
		if hit == nil {
			metrics.LocateMissesTotal.Inc()
			writeJSON(w, http.StatusOK, res)
			return
		}
		fillLocate(&res, hit)
		if hit.Approx {
			metrics.LocateApproxTotal.Inc()
		} else {
			metrics.LocateHitsTotal.Inc()
		}
		locateCache.Set(cacheKey, *hit)
		_ = st.IncrStats(ctx)
		writeJSON(w, http.StatusOK, res)
	}))

	apiMux.HandleFunc("/rebuild", instrument("rebuild", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "post only"})
			return
		}
		t := r.Header.Get("x-admin-token")
		if t == "" || t != os.Getenv("ADMIN_TOKEN") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		city := r.URL.Query().Get("city")
		state := r.URL.Query().Get("state")
		if city == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing city"})
			return
		}
		dbg, emitted, dur, err := RebuildCity(r.Context(), st, dyn, rc, city, state)
		if err != nil {
			logger.L().Error("rebuild_error", "city", city, "state", state, "err", err)
			code := http.StatusInternalServerError
			if err == errNoRawRows {
				code = http.StatusNotFound
			}
			writeJSON(w, code, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, rebuildResult{
			City:           city,
			State:          state,
			Total:          dbg.Total,
			Parsed:         dbg.Parsed,
			OverlapRemoved: dbg.OverlapRemoved,
			Emitted:        emitted,
			DurationMs:     dur.Milliseconds(),
		})
	}))

	apiMux.HandleFunc("/stats", instrument("stats", func(w http.ResponseWriter, r *http.Request) {
		t, _ := st.GetTotals(r.Context())
		m := map[string]any{"total": 0, "today": 0}
		if t != nil {
			m["total"] = t.Total
			m["today"] = t.Today
		}
		writeJSON(w, http.StatusOK, m)
	}))

	return apiMux
}

func fillLocate(res *locateResult, h *partition.Hit) {
	res.Found = true
	res.Approx = h.Approx
	res.ID = h.Item.ID
	res.Name = h.Item.Name
	res.City = h.Item.City
	res.State = h.Item.State
	res.DistanceKm = h.DistanceKm
}
