// Package cachedb layers a read-through/write-through cache over any
// Database. Only present entries are cached, so absence always consults the
// wrapped store and the (nil, nil) miss contract is preserved. The cache
// engine is pluggable; see WrapLRU, WrapFreecache and WrapBigcache.
package cachedb

import (
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/francescomiliani/harmonia/kvdb"
)

var (
	hitMeter  = metrics.NewRegisteredMeter("harmonia/cachedb/hit", nil)
	missMeter = metrics.NewRegisteredMeter("harmonia/cachedb/miss", nil)
)

// engine is the minimal cache every backing implementation provides. set and
// del are best-effort; get must never fabricate an entry and returns a buffer
// the caller may keep.
type engine interface {
	get(key []byte) ([]byte, bool)
	set(key, value []byte)
	del(key []byte)
}

type Database struct {
	inner kvdb.Database
	cache engine
}

func (this *Database) Get(key []byte) ([]byte, error) {
	if cached, ok := this.cache.get(key); ok {
		hitMeter.Mark(1)
		return cached, nil
	}
	value, err := this.inner.Get(key)
	if err != nil || value == nil {
		return value, err
	}
	missMeter.Mark(1)
	this.cache.set(key, value)
	return value, nil
}

func (this *Database) Has(key []byte) (bool, error) {
	if _, ok := this.cache.get(key); ok {
		return true, nil
	}
	return this.inner.Has(key)
}

// Empty is answered by the wrapped store alone; the cache never holds
// entries the store does not.
func (this *Database) Empty() (bool, error) {
	return this.inner.Empty()
}

func (this *Database) Put(key []byte, value []byte) error {
	if err := this.inner.Put(key, value); err != nil {
		return err
	}
	this.cache.set(key, value)
	return nil
}

func (this *Database) Delete(key []byte) error {
	if err := this.inner.Delete(key); err != nil {
		return err
	}
	this.cache.del(key)
	return nil
}

func (this *Database) Close() {
	this.inner.Close()
}

// NewBatch replays through the wrapper on Write so the cache stays coherent
// with every batched mutation.
func (this *Database) NewBatch() kvdb.Batch {
	return kvdb.NewMemBatch(this)
}
