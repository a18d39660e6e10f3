package api

import geojson "github.com/paulmach/go.geojson"

// 文档注释：对外返回结构
// 背景：统一对外序列化模型，仅包含必要字段，避免泄露内部差异；便于缓存与统计一致化处理。
// 约束：字段稳定；新增字段需评估兼容性与前端依赖。
type neighborhoodRecord struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	City   string            `json:"city"`
	State  string            `json:"state"`
	Bounds *geojson.Geometry `json:"bounds"`
	// 标注点，供前端贴名称
	LabelLat float64 `json:"label_lat"`
	LabelLng float64 `json:"label_lng"`
}

// 分区响应：items 按装配顺序（面积升序）
type partitionResponse struct {
	City    string               `json:"city"`
	State   string               `json:"state"`
	BuiltAt string               `json:"built_at"`
	Items   []neighborhoodRecord `json:"items"`
	// 整城覆盖范围的凸包顶点，[lng,lat] 序，供前端画城市轮廓
	Hull [][2]float64 `json:"hull"`
}

// 归属查询响应
type locateResult struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Found  bool    `json:"found"`
	Approx bool    `json:"approx"`
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name,omitempty"`
	City   string  `json:"city,omitempty"`
	State  string  `json:"state,omitempty"`
	// 近似命中时到标注点的距离（千米）
	DistanceKm float64 `json:"distance_km,omitempty"`
	// 坐标来源：query 或 geoip
	Source string `json:"source"`
}

// 重建响应：装配计数器原样透出
type rebuildResult struct {
	City           string `json:"city"`
	State          string `json:"state"`
	Total          int    `json:"total"`
	Parsed         int    `json:"parsed"`
	OverlapRemoved int    `json:"overlap_removed"`
	Emitted        int    `json:"emitted"`
	DurationMs     int64  `json:"duration_ms"`
}
