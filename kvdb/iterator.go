package kvdb

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"github.com/francescomiliani/harmonia/common"
)

// MemIterator walks a point-in-time snapshot of a MemDatabase in ascending
// bytewise key order. Mutations made after NewIterator are not observed.
type MemIterator struct {
	inner treemap.Iterator
}

// NewIterator snapshots the store under its read lock and returns an iterator
// positioned before the first entry.
func (db *MemDatabase) NewIterator() *MemIterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	// string comparison is bytewise, so StringComparator sorts exactly like
	// bytes.Compare on the original keys
	snapshot := treemap.NewWith(utils.StringComparator)
	for k, v := range db.db {
		snapshot.Put(k, v)
	}
	return &MemIterator{inner: snapshot.Iterator()}
}

func (it *MemIterator) Next() bool {
	return it.inner.Next()
}

func (it *MemIterator) Key() []byte {
	return []byte(it.inner.Key().(string))
}

func (it *MemIterator) Value() []byte {
	return common.CopyBytes(it.inner.Value().([]byte))
}
