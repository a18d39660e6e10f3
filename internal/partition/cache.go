package partition

import (
	"container/list"
	"sync"
	"time"
)

// 文档注释：归属查询热点 LRU（geohash 为键）
// 背景：地图上的访问集中在少数位置，短周期内同一格子的归属不变；进程内缓存省掉重复判定。
// 约束：键由调用方构造（建议 geohash 精度 6，约 1.2km 格子）；TTL 到期即失效。
type LRU struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
}

type lruEntry struct {
	k   string
	v   Hit
	exp time.Time
}

func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 4096
	}
	return &LRU{cap: capacity, ttl: ttl, lst: list.New(), dict: make(map[string]*list.Element)}
}

func (c *LRU) Get(k string) (Hit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		it := e.Value.(lruEntry)
		if time.Now().Before(it.exp) {
			c.lst.MoveToFront(e)
			return it.v, true
		}
		c.lst.Remove(e)
		delete(c.dict, k)
	}
	return Hit{}, false
}

func (c *LRU) Set(k string, v Hit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		e.Value = lruEntry{k: k, v: v, exp: time.Now().Add(c.ttl)}
		c.lst.MoveToFront(e)
		return
	}
	e := c.lst.PushFront(lruEntry{k: k, v: v, exp: time.Now().Add(c.ttl)})
	c.dict[k] = e
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		if back == nil {
			break
		}
		it := back.Value.(lruEntry)
		delete(c.dict, it.k)
		c.lst.Remove(back)
	}
}

// Purge：清空缓存（分区重建后调用，避免返回旧归属）
func (c *LRU) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lst.Init()
	c.dict = make(map[string]*list.Element)
}
