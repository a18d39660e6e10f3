// 数据导入工具：从 GeoJSON FeatureCollection 文件批量写入原始社区表
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	geojson "github.com/paulmach/go.geojson"

	"hood-api/internal/mece"
	"hood-api/internal/migrate"
	"hood-api/internal/store"
	"hood-api/internal/utils"
)

// 读取 feature 属性中的字符串，兼容常见大小写键名
func propString(f *geojson.Feature, keys ...string) string {
	for _, k := range keys {
		if v, ok := f.Properties[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// 逐 feature 解析并 UPSERT 到 _hood_raw；城市与州允许由环境变量统一指定
func main() {
	_ = godotenv.Load(".env")
	path := os.Getenv("HOOD_FILE")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		log.Fatal("usage: hood-ingest <featurecollection.geojson> (or HOOD_FILE env)")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		log.Fatal(err)
	}

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	st := store.AttachDB(db)
	if err := migrate.EnsureSchema(db); err != nil {
		log.Fatal(err)
	}

	defCity := os.Getenv("HOOD_CITY")
	defState := os.Getenv("HOOD_STATE")
	ctx := context.Background()
	n, skipped := 0, 0
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			skipped++
			continue
		}
		name := propString(f, "name", "Name", "NAME")
		if name == "" {
			skipped++
			continue
		}
		id := propString(f, "id", "regionid", "region_id")
		if id == "" {
			// 无显式 ID 时用 名称+序号 合成稳定键
			id = strings.ToLower(strings.ReplaceAll(name, " ", "-")) + fmt.Sprintf("-%d", i)
		}
		city := propString(f, "city", "City", "CITY")
		if city == "" {
			city = defCity
		}
		state := propString(f, "state", "State", "STATE")
		if state == "" {
			state = defState
		}
		if city == "" {
			skipped++
			continue
		}
		b, err := json.Marshal(f.Geometry)
		if err != nil {
			skipped++
			continue
		}
		if err := st.UpsertRaw(ctx, mece.Input{ID: id, Name: name, City: city, State: state, Bounds: b}); err != nil {
			log.Println("upsert:", id, err)
			skipped++
			continue
		}
		n++
	}
	log.Printf("ingest done: %d upserted, %d skipped", n, skipped)
}
