// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oschwald/geoip2-golang"

	"hood-api/internal/api"
	"hood-api/internal/logger"
	"hood-api/internal/metrics"
	"hood-api/internal/middleware"
	"hood-api/internal/migrate"
	"hood-api/internal/partition"
	"hood-api/internal/store"
	"hood-api/internal/utils"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	l.Debug("config_api_base", "base", apiBase)
	_ = utils.BuildPostgresDSNFromEnv()

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	l.Info("db_open_ok")
	if err := db.Ping(); err != nil {
		l.Error("db_ping_error", "err", err)
	} else {
		l.Info("db_ping_ok")
	}
	st := store.AttachDB(db)
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	}

	// 文档注释：GeoIP 城市库（可选）
	// 背景：/locate 未携带坐标时用访问者 IP 粗定位再做归属；库缺失时该回退自动降级。
	var mmdb *geoip2.Reader
	mmdbPath := os.Getenv("GEOIP_MMDB_PATH")
	if mmdbPath == "" {
		mmdbPath = filepath.Join("data", "geoip", "GeoLite2-City.mmdb")
	}
	l.Debug("config_mmdb_path", "path", mmdbPath)
	if _, err := os.Stat(mmdbPath); err == nil {
		if r, err := geoip2.Open(mmdbPath); err == nil {
			mmdb = r
			defer mmdb.Close()
			l.Info("mmdb_open_ok", "path", mmdbPath)
		} else {
			l.Error("mmdb_open_error", "err", err)
		}
	} else {
		l.Info("mmdb_missing", "path", mmdbPath)
	}

	// 文档注释：分区快照预热
	// 背景：启动时从 _hood_mece 回填各城市的内存快照，一次整体换入；期间服务先以空快照对外。
	// 约束：REBUILD_ON_START=true 时忽略落库结果，从原始表全量重新装配。
	dyn := &partition.Dynamic{}
	go func() {
		ctx := context.Background()
		cities, err := st.ListCities(ctx)
		if err != nil {
			l.Error("list_cities_error", "err", err)
			return
		}
		if os.Getenv("REBUILD_ON_START") == "true" {
			for _, c := range cities {
				if _, _, _, err := api.RebuildCity(ctx, st, dyn, rc, c[0], c[1]); err != nil {
					l.Error("startup_rebuild_error", "city", c[0], "state", c[1], "err", err)
				}
			}
			l.Info("startup_rebuild_done", "cities", len(cities))
			return
		}
		var snaps []*partition.Snapshot
		for _, c := range cities {
			s, err := api.LoadSnapshot(ctx, st, c[0], c[1])
			if err != nil {
				l.Error("snapshot_load_error", "city", c[0], "state", c[1], "err", err)
				continue
			}
			if s != nil {
				snaps = append(snaps, s)
			}
		}
		dyn.Replace(snaps)
		l.Info("snapshots_ready", "cities", len(snaps))
	}()

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(st, rc, dyn, mmdb)
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle(apiBase+"/metrics", metrics.Handler())

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	tlsEnable := os.Getenv("TLS_ENABLE")
	if tlsEnable == "true" {
		certPath := os.Getenv("TLS_CERT_PATH")
		keyPath := os.Getenv("TLS_KEY_PATH")
		if certPath == "" {
			certPath = filepath.Join("data", "certs", "server.crt")
		}
		if keyPath == "" {
			keyPath = filepath.Join("data", "certs", "server.key")
		}
		_ = utils.EnsureSelfSignedCert(certPath, keyPath, "hood-api.local")
		// 可选：启动HTTP重定向到HTTPS（不改变HTTPS运行端口）
		if os.Getenv("TLS_REDIRECT_ENABLE") == "true" {
			redirAddr := os.Getenv("TLS_REDIRECT_ADDR")
			if redirAddr == "" {
				redirAddr = ":80"
			}
			go func() {
				httpRedir := http.NewServeMux()
				httpRedir.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
					host := r.Host
					// 替换目标端口为HTTPS服务端口
					httpsPort := strings.TrimPrefix(addr, ":")
					baseHost := host
					if i := strings.LastIndex(host, ":"); i != -1 {
						baseHost = host[:i]
					}
					targetHost := baseHost
					if httpsPort != "" {
						targetHost = baseHost + ":" + httpsPort
					}
					target := "https://" + targetHost + r.URL.RequestURI()
					http.Redirect(w, r, target, http.StatusMovedPermanently)
					l.Debug("http_redirect", "from", r.Host, "to", target)
				})
				l.Info("http_redirect_listening", "addr", redirAddr, "to", "https"+addr)
				_ = http.ListenAndServe(redirAddr, logger.AccessMiddleware(l)(httpRedir))
			}()
		}
		l.Info("listening_tls", "addr", addr, "cert", certPath)
		_ = s.ListenAndServeTLS(certPath, keyPath)
		return
	}
	l.Info("listening", "addr", addr)
	_ = s.ListenAndServe()
}
