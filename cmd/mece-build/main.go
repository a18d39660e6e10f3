package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hood-api/internal/api"
	"hood-api/internal/logger"
	"hood-api/internal/migrate"
	"hood-api/internal/partition"
	"hood-api/internal/store"
	"hood-api/internal/utils"
)

// 文档注释：离线批量装配工具
// 背景：对 _hood_raw 中的城市逐个执行互斥分区装配并落库，供部署后初始化或夜间全量重建使用。
// 约束：BUILD_CITY/BUILD_STATE 指定时只处理该城市；否则遍历全部城市；单城失败不中断批次。
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	st := store.AttachDB(db)
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var cities [][2]string
	if c := os.Getenv("BUILD_CITY"); c != "" {
		cities = [][2]string{{c, os.Getenv("BUILD_STATE")}}
	} else {
		cities, err = st.ListCities(ctx)
		if err != nil {
			l.Error("list_cities_error", "err", err)
			os.Exit(1)
		}
	}

	begin := time.Now()
	failed := 0
	dyn := &partition.Dynamic{}
	for _, c := range cities {
		dbg, emitted, dur, err := api.RebuildCity(ctx, st, dyn, nil, c[0], c[1])
		if err != nil {
			l.Error("build_error", "city", c[0], "state", c[1], "err", err)
			failed++
			continue
		}
		l.Info("build_ok",
			"city", c[0],
			"state", c[1],
			"total", dbg.Total,
			"parsed", dbg.Parsed,
			"overlap_removed", dbg.OverlapRemoved,
			"emitted", emitted,
			"duration_ms", dur.Milliseconds(),
		)
	}
	l.Info("batch_done", "cities", len(cities), "failed", failed, "duration_ms", time.Since(begin).Milliseconds())
	if failed > 0 {
		os.Exit(1)
	}
}
