package partition

import "sync/atomic"

// 文档注释：分区快照的动态持有器
// 背景：重建分区时通过 atomic.Value 整体换入新映射，读路径无锁不阻塞；写时复制保证旧快照对在途请求仍然有效。
// 约束：映射一经存入视为只读；单快照替换走 Set，全量替换走 Replace。
type Dynamic struct {
	v atomic.Value // map[string]*Snapshot
}

// Get：按 city/state 取快照，未加载返回 nil
func (d *Dynamic) Get(city, state string) *Snapshot {
	x := d.v.Load()
	if x == nil {
		return nil
	}
	return x.(map[string]*Snapshot)[Key(city, state)]
}

// Set：替换单个城市的快照（写时复制）
func (d *Dynamic) Set(s *Snapshot) {
	old, _ := d.v.Load().(map[string]*Snapshot)
	next := make(map[string]*Snapshot, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[Key(s.City, s.State)] = s
	d.v.Store(next)
}

// Replace：整体换入全量快照集合
func (d *Dynamic) Replace(all []*Snapshot) {
	next := make(map[string]*Snapshot, len(all))
	for _, s := range all {
		next[Key(s.City, s.State)] = s
	}
	d.v.Store(next)
}

// All：返回全部已加载快照
func (d *Dynamic) All() []*Snapshot {
	x := d.v.Load()
	if x == nil {
		return nil
	}
	m := x.(map[string]*Snapshot)
	out := make([]*Snapshot, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	return out
}

// Keys：返回已加载的快照键（诊断用）
func (d *Dynamic) Keys() []string {
	x := d.v.Load()
	if x == nil {
		return nil
	}
	m := x.(map[string]*Snapshot)
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
