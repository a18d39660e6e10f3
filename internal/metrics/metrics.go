package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hoodapi_requests_total",
		Help: "Total API requests by route",
	}, []string{"route"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hoodapi_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hoodapi_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hoodapi_redis_misses_total",
		Help: "Total redis cache misses",
	})
	LocateHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hoodapi_locate_hits_total",
		Help: "Total locate queries resolved by polygon containment",
	})
	LocateApproxTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hoodapi_locate_approx_total",
		Help: "Total locate queries resolved by nearest-label fallback",
	})
	LocateMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hoodapi_locate_misses_total",
		Help: "Total locate queries with no neighborhood",
	})
	BuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hoodapi_builds_total",
		Help: "Total partition builds",
	})
	BuildDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hoodapi_build_duration_ms",
		Help:    "Partition build duration in milliseconds",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 30000},
	})
	BuildCandidatesParsed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hoodapi_build_candidates_parsed_total",
		Help: "Total candidates surviving parse and simplification",
	})
	BuildOverlapRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hoodapi_build_overlap_removed_total",
		Help: "Total candidates dropped as fully subsumed",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(LocateHitsTotal)
	prometheus.MustRegister(LocateApproxTotal)
	prometheus.MustRegister(LocateMissesTotal)
	prometheus.MustRegister(BuildsTotal)
	prometheus.MustRegister(BuildDurationMs)
	prometheus.MustRegister(BuildCandidatesParsed)
	prometheus.MustRegister(BuildOverlapRemoved)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
