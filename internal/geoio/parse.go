// 包 geoio：外部几何表示与内部环表示之间的边界转换，无任何决策逻辑
// 背景：原始边界以不透明 blob 入库（GeoJSON 或 PostGIS EWKB 十六进制），统一在此解析为内部环集合
package geoio

import (
	"bytes"
	"encoding/json"
	"errors"

	geojson "github.com/paulmach/go.geojson"
	geomlib "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkbhex"

	"hood-api/internal/geo"
)

var errUnsupported = errors.New("geoio: unsupported geometry")

// 文档注释：解析不透明边界 blob
// 背景：按首字符区分 GeoJSON（'{' 开头，支持 Feature/Polygon/MultiPolygon）与 EWKB/WKB 十六进制；
// 解析失败或几何为空返回错误，由装配层按丢弃路径处理。
// 约束：结果已规范化（退化环剔除、环闭合）；返回 nil 集合视为无有效几何。
func ParseBounds(blob []byte) (geo.PolygonSet, error) {
	b := bytes.TrimSpace(blob)
	if len(b) == 0 {
		return nil, errUnsupported
	}
	var ps geo.PolygonSet
	var err error
	if b[0] == '{' {
		ps, err = parseGeoJSON(b)
	} else {
		ps, err = parseEWKBHex(string(b))
	}
	if err != nil {
		return nil, err
	}
	ps = geo.Normalize(ps)
	if len(ps) == 0 {
		return nil, errUnsupported
	}
	return ps, nil
}

func parseGeoJSON(b []byte) (geo.PolygonSet, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, err
	}
	var g *geojson.Geometry
	if probe.Type == "Feature" {
		f, err := geojson.UnmarshalFeature(b)
		if err != nil || f.Geometry == nil {
			return nil, errUnsupported
		}
		g = f.Geometry
	} else {
		var err error
		g, err = geojson.UnmarshalGeometry(b)
		if err != nil {
			return nil, err
		}
	}
	switch {
	case g.IsPolygon():
		return geo.PolygonSet{fromCoordRings(g.Polygon)}, nil
	case g.IsMultiPolygon():
		var ps geo.PolygonSet
		for _, poly := range g.MultiPolygon {
			ps = append(ps, fromCoordRings(poly))
		}
		return ps, nil
	}
	return nil, errUnsupported
}

func parseEWKBHex(s string) (geo.PolygonSet, error) {
	t, err := ewkbhex.Decode(s)
	if err != nil {
		return nil, err
	}
	switch g := t.(type) {
	case *geomlib.Polygon:
		return geo.PolygonSet{fromGeomCoords(g.Coords())}, nil
	case *geomlib.MultiPolygon:
		var ps geo.PolygonSet
		for _, poly := range g.Coords() {
			ps = append(ps, fromGeomCoords(poly))
		}
		return ps, nil
	}
	return nil, errUnsupported
}

// GeoJSON 坐标为 [lng, lat] 轴序
func fromCoordRings(rings [][][]float64) geo.PolygonRings {
	var out geo.PolygonRings
	for _, ring := range rings {
		r := make(geo.Ring, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			r = append(r, geo.LatLng{Lat: c[1], Lng: c[0]})
		}
		out = append(out, r)
	}
	return out
}

func fromGeomCoords(rings [][]geomlib.Coord) geo.PolygonRings {
	var out geo.PolygonRings
	for _, ring := range rings {
		r := make(geo.Ring, 0, len(ring))
		for _, c := range ring {
			r = append(r, geo.LatLng{Lat: c.Y(), Lng: c.X()})
		}
		out = append(out, r)
	}
	return out
}
