package migrate

import (
	"database/sql"

	"hood-api/internal/logger"
)

// 背景：首次运行自动创建所需表与索引，保障后续导入、装配与查询
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _hood_raw (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            city TEXT NOT NULL,
            state TEXT NOT NULL,
            bounds TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_hood_raw_city ON _hood_raw(lower(city), lower(state))`,
		`CREATE TABLE IF NOT EXISTS _hood_mece (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            city TEXT NOT NULL,
            state TEXT NOT NULL,
            bounds TEXT NOT NULL,
            area DOUBLE PRECISION NOT NULL,
            position INT NOT NULL,
            built_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_hood_mece_city ON _hood_mece(lower(city), lower(state), position)`,
		`CREATE TABLE IF NOT EXISTS _hood_builds (
            id SERIAL PRIMARY KEY,
            city TEXT NOT NULL,
            state TEXT NOT NULL,
            total INT NOT NULL,
            parsed INT NOT NULL,
            overlap_removed INT NOT NULL,
            max_ring_points INT NOT NULL DEFAULT 0,
            duration_ms BIGINT NOT NULL,
            built_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS _hood_stats_total (
            id INT PRIMARY KEY,
            total_queries BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _hood_stats_daily (
            day DATE PRIMARY KEY,
            queries BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO _hood_stats_total(id, total_queries)
         VALUES(1, 0)
         ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
