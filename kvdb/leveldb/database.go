// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package leveldb is the goleveldb-backed Database. Same store contract as
// the in-memory one, entries survive restarts.
package leveldb

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/francescomiliani/harmonia/kvdb"
)

var (
	readMeter   = metrics.NewRegisteredMeter("harmonia/leveldb/read", nil)
	writeMeter  = metrics.NewRegisteredMeter("harmonia/leveldb/write", nil)
	deleteMeter = metrics.NewRegisteredMeter("harmonia/leveldb/delete", nil)
)

// Database wraps a goleveldb handle behind the kvdb contract.
type Database struct {
	fn  string
	db  *leveldb.DB
	log log.Logger
}

// New opens (or creates) a leveldb store at file. cache and handles tune the
// block cache size in megabytes and the open file allowance; both get clamped
// to a workable minimum. A corrupted store is recovered before giving up.
func New(file string, cache int, handles int) (*Database, error) {
	logger := log.New("database", file)
	if cache < 16 {
		cache = 16
	}
	if handles < 16 {
		handles = 16
	}
	logger.Info("Allocated cache and file handles", "cache", cache, "handles", handles)

	db, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		logger.Warn("Database corrupted, attempting recovery")
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &Database{
		fn:  file,
		db:  db,
		log: logger,
	}, nil
}

// Path returns the path to the database directory.
func (db *Database) Path() string {
	return db.fn
}

func (db *Database) Put(key []byte, value []byte) error {
	writeMeter.Mark(int64(len(value)))
	return db.db.Put(key, value, nil)
}

func (db *Database) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

// Get retrieves the value mapped to key, or (nil, nil) if key is absent. A
// present empty value comes back as a non-nil empty slice.
func (db *Database) Get(key []byte) ([]byte, error) {
	dat, err := db.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if dat == nil {
		dat = []byte{}
	}
	readMeter.Mark(int64(len(dat)))
	return dat, nil
}

// Empty reports whether the store holds no entries.
func (db *Database) Empty() (bool, error) {
	it := db.db.NewIterator(nil, nil)
	defer it.Release()
	return !it.First(), it.Error()
}

func (db *Database) Delete(key []byte) error {
	deleteMeter.Mark(1)
	return db.db.Delete(key, nil)
}

func (db *Database) Close() {
	if err := db.db.Close(); err != nil {
		db.log.Error("Failed to close database", "err", err)
		return
	}
	db.log.Info("Database closed")
}

func (db *Database) NewBatch() kvdb.Batch {
	return &ldbBatch{db: db.db, b: new(leveldb.Batch)}
}

type ldbBatch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
}

func (b *ldbBatch) Put(key, value []byte) error {
	b.b.Put(key, value)
	b.size += len(value)
	return nil
}

func (b *ldbBatch) Delete(key []byte) error {
	b.b.Delete(key)
	b.size += 1
	return nil
}

func (b *ldbBatch) Write() error {
	writeMeter.Mark(int64(b.size))
	return b.db.Write(b.b, nil)
}

func (b *ldbBatch) ValueSize() int {
	return b.size
}

func (b *ldbBatch) Reset() {
	b.b.Reset()
	b.size = 0
}
