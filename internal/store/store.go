// 包 store: 提供与 PostgreSQL 的数据访问层，包含原始边界读取、装配结果读写与统计
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"hood-api/internal/logger"
	"hood-api/internal/mece"
)

// Store: 数据库访问入口，持有连接池并提供查询/写入接口
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open: 使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	return &Store{db: db}, nil
}

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// FetchRaw: 读取一个城市的全部原始社区行（bounds 以不透明文本原样返回）
// 背景：原始边界由采集链路写入，可能为 GeoJSON 或 PostGIS EWKB 十六进制；本层不做解析。
func (s *Store) FetchRaw(ctx context.Context, city, state string) ([]mece.Input, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, city, state, bounds FROM _hood_raw WHERE lower(city)=lower($1) AND lower(state)=lower($2)`,
		city, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []mece.Input
	for rows.Next() {
		var in mece.Input
		var bounds string
		if err := rows.Scan(&in.ID, &in.Name, &in.City, &in.State, &bounds); err != nil {
			return nil, err
		}
		in.Bounds = []byte(bounds)
		out = append(out, in)
	}
	logger.L().Debug("raw_fetch_done", "city", city, "state", state, "rows", len(out))
	return out, rows.Err()
}

// ListCities: 返回原始表中出现过的 (city, state) 去重组合
func (s *Store) ListCities(ctx context.Context) ([][2]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT lower(city), lower(state) FROM _hood_raw ORDER BY 1, 2`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out [][2]string
	for rows.Next() {
		var c, st string
		if err := rows.Scan(&c, &st); err != nil {
			return nil, err
		}
		out = append(out, [2]string{c, st})
	}
	return out, rows.Err()
}

// UpsertRaw: 写入/更新一条原始社区行（采集工具使用）
func (s *Store) UpsertRaw(ctx context.Context, in mece.Input) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO _hood_raw(id, name, city, state, bounds)
        VALUES($1,$2,$3,$4,$5)
        ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, city=EXCLUDED.city, state=EXCLUDED.state, bounds=EXCLUDED.bounds, updated_at=now()`,
		in.ID, in.Name, in.City, in.State, string(in.Bounds))
	return err
}

// AssembledRow: 装配结果行，bounds 为 GeoJSON MultiPolygon 文本
type AssembledRow struct {
	ID       string
	Name     string
	City     string
	State    string
	Bounds   string
	Area     float64
	Position int
}

// 文档注释：整体替换一个城市的装配分区
// 背景：分区是按城市整体成立的，逐行更新会出现新旧混杂的中间态；在单事务内先删后插保证原子可见。
// 约束：position 记录装配顺序（面积升序），读取时按其还原。
func (s *Store) ReplacePartition(ctx context.Context, city, state string, items []AssembledRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM _hood_mece WHERE lower(city)=lower($1) AND lower(state)=lower($2)`, city, state); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `INSERT INTO _hood_mece(id, name, city, state, bounds, area, position, built_at)
            VALUES($1,$2,$3,$4,$5,$6,$7,now())`,
			it.ID, it.Name, it.City, it.State, it.Bounds, it.Area, it.Position); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Debug("partition_replace_done", "city", city, "state", state, "rows", len(items))
	return nil
}

// LoadPartition: 按装配顺序读取一个城市的分区
func (s *Store) LoadPartition(ctx context.Context, city, state string) ([]AssembledRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, city, state, bounds, area, position FROM _hood_mece
         WHERE lower(city)=lower($1) AND lower(state)=lower($2) ORDER BY position`,
		city, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AssembledRow
	for rows.Next() {
		var r AssembledRow
		if err := rows.Scan(&r.ID, &r.Name, &r.City, &r.State, &r.Bounds, &r.Area, &r.Position); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordBuild: 落一条装配统计（观测用，失败不影响主流程）
func (s *Store) RecordBuild(ctx context.Context, city, state string, dbg mece.Debug, dur time.Duration) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO _hood_builds(city, state, total, parsed, overlap_removed, max_ring_points, duration_ms, built_at)
        VALUES($1,$2,$3,$4,$5,$6,$7,now())`,
		city, state, dbg.Total, dbg.Parsed, dbg.OverlapRemoved, dbg.MaxRingPoints, dur.Milliseconds())
	if err != nil {
		logger.L().Error("build_record_error", "err", err)
	}
}

// IncrStats: 成功查询后递增总计与当日计数
func (s *Store) IncrStats(ctx context.Context) error {
	_, _ = s.db.ExecContext(ctx, "UPDATE _hood_stats_total SET total_queries=total_queries+1 WHERE id=1")
	_, _ = s.db.ExecContext(ctx, "INSERT INTO _hood_stats_daily(day, queries) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET queries=_hood_stats_daily.queries+1")
	return nil
}

// Totals: 统计返回结构，包含累计与当日查询次数
type Totals struct {
	Total int64
	Today int64
}

// GetTotals: 读取累计与当日查询次数，用于接口返回
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_queries FROM _hood_stats_total WHERE id=1")
	_ = row.Scan(&t.Total)
	row2 := s.db.QueryRowContext(ctx, "SELECT queries FROM _hood_stats_daily WHERE day=current_date")
	_ = row2.Scan(&t.Today)
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}
