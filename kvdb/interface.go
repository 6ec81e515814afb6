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

// Package kvdb defines the binary key-value store contract shared by all
// storage backends, plus the canonical in-memory implementation.
//
// Keys and values are arbitrary byte sequences, the empty sequence included.
// Keys compare by content: two slices with equal bytes address the same entry
// no matter which buffers they live in. A lookup of an absent key is not an
// error; Get reports it as (nil, nil) and keeps errors for backend faults
// only. A present empty value comes back as a non-nil empty slice, so the two
// cases never collide.
package kvdb

// Getter is the read-only capability of a store. Backends that cannot write
// implement just this.
type Getter interface {
	// Get retrieves the value mapped to key, or (nil, nil) if there is none.
	Get(key []byte) ([]byte, error)
	// Has reports whether key is present.
	Has(key []byte) (bool, error)
	// Empty reports whether the store holds no entries at all.
	Empty() (bool, error)
}

// Putter wraps the database write operation supported by both batches and
// regular databases.
type Putter interface {
	// Put maps key to value, replacing any previous mapping. The store keeps
	// its own copy of both. A nil value is stored as the empty value.
	Put(key []byte, value []byte) error
}

// Deleter wraps the database delete operation supported by both batches and
// regular databases. Deleting an absent key is a no-op, not an error.
type Deleter interface {
	Delete(key []byte) error
}

// Writer groups the mutating operations.
type Writer interface {
	Putter
	Deleter
}

// Database wraps all operations of a fully capable store. All methods are
// safe for concurrent use.
//
// Implementations are free to also satisfy fmt.Stringer with a diagnostic
// dump of their contents; its format and ordering are advisory and not part
// of this contract.
type Database interface {
	Getter
	Writer
	Close()
	NewBatch() Batch
}

// Batch is a write-only store that commits its accumulated changes to the
// host database when Write is called. A batch is not safe for concurrent use.
type Batch interface {
	Writer
	// ValueSize is the amount of queued value data in the batch.
	ValueSize() int
	Write() error
	// Reset empties the batch for reuse.
	Reset()
}
