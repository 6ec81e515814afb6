package cachedb

import (
	"time"

	"github.com/allegro/bigcache"
	"github.com/coocood/freecache"
	lru "github.com/hashicorp/golang-lru"

	"github.com/francescomiliani/harmonia/common"
	"github.com/francescomiliani/harmonia/kvdb"
)

// WrapLRU bounds the cache by entry count.
func WrapLRU(inner kvdb.Database, entries int) (*Database, error) {
	c, err := lru.New(entries)
	if err != nil {
		return nil, err
	}
	return &Database{inner: inner, cache: &lruEngine{c}}, nil
}

type lruEngine struct {
	c *lru.Cache
}

func (this *lruEngine) get(key []byte) ([]byte, bool) {
	if v, ok := this.c.Get(string(key)); ok {
		return common.CopyBytes(v.([]byte)), true
	}
	return nil, false
}

func (this *lruEngine) set(key, value []byte) {
	this.c.Add(string(key), common.CopyBytes(value))
}

func (this *lruEngine) del(key []byte) {
	this.c.Remove(string(key))
}

// WrapFreecache bounds the cache by total memory; size is in bytes.
func WrapFreecache(inner kvdb.Database, size int) *Database {
	return &Database{inner: inner, cache: &freecacheEngine{freecache.NewCache(size)}}
}

type freecacheEngine struct {
	c *freecache.Cache
}

func (this *freecacheEngine) get(key []byte) ([]byte, bool) {
	v, err := this.c.Get(key)
	if err != nil {
		return nil, false
	}
	if v == nil {
		v = []byte{}
	}
	return v, true
}

func (this *freecacheEngine) set(key, value []byte) {
	// oversized entries simply stay uncached
	this.c.Set(key, value, 0)
}

func (this *freecacheEngine) del(key []byte) {
	this.c.Del(key)
}

// WrapBigcache shards the cache and retires entries by lifetime windows.
// size is in megabytes.
func WrapBigcache(inner kvdb.Database, size int) (*Database, error) {
	c, err := bigcache.NewBigCache(bigcache.Config{
		Shards:             1024,
		LifeWindow:         time.Hour,
		MaxEntriesInWindow: size * 1024,
		MaxEntrySize:       512,
		HardMaxCacheSize:   size,
	})
	if err != nil {
		return nil, err
	}
	return &Database{inner: inner, cache: &bigcacheEngine{c}}, nil
}

type bigcacheEngine struct {
	c *bigcache.BigCache
}

func (this *bigcacheEngine) get(key []byte) ([]byte, bool) {
	v, err := this.c.Get(string(key))
	if err != nil {
		return nil, false
	}
	if v == nil {
		v = []byte{}
	}
	return v, true
}

func (this *bigcacheEngine) set(key, value []byte) {
	this.c.Set(string(key), value)
}

func (this *bigcacheEngine) del(key []byte) {
	this.c.Delete(string(key))
}
