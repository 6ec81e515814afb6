// Package rocksdb is the gorocksdb-backed Database. Native batches, tunable
// point-lookup and compaction behavior, checkpoint snapshots.
package rocksdb

import (
	"github.com/tecbot/gorocksdb"

	"github.com/francescomiliani/harmonia/common"
	"github.com/francescomiliani/harmonia/kvdb"
	"github.com/francescomiliani/harmonia/util"
)

type Database struct {
	writeOpts *gorocksdb.WriteOptions
	readOpts  *gorocksdb.ReadOptions
	db        *gorocksdb.DB
}

func New(cfg *Config) (*Database, error) {
	opts := gorocksdb.NewDefaultOptions()
	if cfg.OptimizeForPointLookup != nil {
		opts.SetAllowConcurrentMemtableWrites(false)
		opts.OptimizeForPointLookup(*cfg.OptimizeForPointLookup)
	} else {
		blockOpts := gorocksdb.NewDefaultBlockBasedTableOptions()
		blockOpts.SetFilterPolicy(gorocksdb.NewBloomFilter(util.Max(10, cfg.BloomFilterCapacity)))
		if cfg.BlockCacheSize > 0 {
			blockOpts.SetBlockCache(gorocksdb.NewLRUCache(cfg.BlockCacheSize))
		}
		opts.SetBlockBasedTableFactory(blockOpts)
	}
	if cfg.WriteBufferSize > 0 {
		opts.SetWriteBufferSize(cfg.WriteBufferSize)
	}
	if cfg.MaxOpenFiles > 0 {
		opts.SetMaxOpenFiles(cfg.MaxOpenFiles)
	}
	if cfg.Parallelism > 0 {
		opts.IncreaseParallelism(cfg.Parallelism)
	}
	if cfg.MaxFileOpeningThreads != nil {
		opts.SetMaxFileOpeningThreads(*cfg.MaxFileOpeningThreads)
	}
	opts.SetUseDirectReads(cfg.UseDirectReads)
	opts.SetAllowMmapReads(cfg.AllowMmapReads)
	opts.SetErrorIfExists(cfg.ErrorIfExists)
	opts.SetCreateIfMissing(!cfg.DontCreateIfMissing)

	ret, err := new(Database), error(nil)
	ret.writeOpts = gorocksdb.NewDefaultWriteOptions()
	ret.readOpts = gorocksdb.NewDefaultReadOptions()
	ret.readOpts.SetVerifyChecksums(false)
	if cfg.ReadOnly {
		ret.db, err = gorocksdb.OpenDbForReadOnly(opts, cfg.File, cfg.ErrorIfExists)
	} else {
		ret.db, err = gorocksdb.OpenDb(opts, cfg.File)
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (this *Database) Unwrap() *gorocksdb.DB {
	return this.db
}

func (this *Database) Put(key []byte, value []byte) error {
	return this.db.Put(this.writeOpts, key, value)
}

func (this *Database) Delete(key []byte) error {
	return this.db.Delete(this.writeOpts, key)
}

// Get maps an engine-level miss (a hollow pinned slice) to (nil, nil).
func (this *Database) Get(key []byte) ([]byte, error) {
	val_handle, err := this.db.GetPinned(this.readOpts, key)
	if err != nil {
		return nil, err
	}
	defer val_handle.Destroy()
	if data := val_handle.Data(); data != nil {
		return common.CopyBytes(data), nil
	}
	return nil, nil
}

func (this *Database) Has(key []byte) (bool, error) {
	val_handle, err := this.db.GetPinned(this.readOpts, key)
	if err != nil {
		return false, err
	}
	defer val_handle.Destroy()
	return val_handle.Data() != nil, nil
}

func (this *Database) Empty() (bool, error) {
	itr := this.db.NewIterator(this.readOpts)
	defer itr.Close()
	itr.SeekToFirst()
	if err := itr.Err(); err != nil {
		return false, err
	}
	return !itr.Valid(), nil
}

// Snapshot materializes a consistent checkpoint of the store under dir.
func (this *Database) Snapshot(dir string, log_size_for_flush uint64) error {
	c, err := this.db.NewCheckpoint()
	if err != nil {
		return err
	}
	defer c.Destroy()
	return c.CreateCheckpoint(dir, log_size_for_flush)
}

func (this *Database) Close() {
	this.readOpts.Destroy()
	this.writeOpts.Destroy()
	this.db.Close()
	this.db = nil
}

func (this *Database) NewBatch() kvdb.Batch {
	return &batch{
		db:    this,
		batch: gorocksdb.NewWriteBatch(),
	}
}
