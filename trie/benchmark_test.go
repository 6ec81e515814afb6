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

package trie

import (
	"encoding/binary"
	"testing"

	"github.com/francescomiliani/harmonia/common"
	"github.com/francescomiliani/harmonia/kvdb"
	"github.com/francescomiliani/harmonia/util"
)

const benchElemCount = 20000

func benchKey(i int) []byte {
	k := make([]byte, 32)
	binary.BigEndian.PutUint64(k, uint64(i))
	return k
}

func BenchmarkGet(b *testing.B)    { benchGet(b, false) }
func BenchmarkGetDB(b *testing.B)  { benchGet(b, true) }
func BenchmarkInsert(b *testing.B) { benchInsert(b) }
func BenchmarkHash(b *testing.B)   { benchHash(b) }
func BenchmarkCommitAfterHash(b *testing.B) {
	b.StopTimer()
	db := kvdb.NewMemDatabase()
	trie, err := New(common.Hash{}, db, 0, nil)
	util.PanicIfNotNil(err)
	for i := 0; i < benchElemCount; i++ {
		trie.Insert(benchKey(i), benchKey(i))
	}
	trie.Hash()
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		trie.Commit()
	}
}

func benchGet(b *testing.B, commit bool) {
	db := kvdb.NewMemDatabase()
	trie, err := New(common.Hash{}, db, 0, nil)
	util.PanicIfNotNil(err)
	for i := 0; i < benchElemCount; i++ {
		trie.Insert(benchKey(i), benchKey(i))
	}
	if commit {
		root, err := trie.Commit()
		util.PanicIfNotNil(err)
		trie, err = New(root, db, 0, nil)
		util.PanicIfNotNil(err)
	}
	k := benchKey(benchElemCount / 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		trie.Get(k)
	}
}

func benchInsert(b *testing.B) {
	trie := newEmpty()
	k := make([]byte, 32)
	for i := 0; i < b.N; i++ {
		binary.BigEndian.PutUint64(k, uint64(i))
		trie.Insert(k, k)
	}
}

func benchHash(b *testing.B) {
	trie := newEmpty()
	for i := 0; i < benchElemCount; i++ {
		trie.Insert(benchKey(i), benchKey(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		trie.Hash()
		// dirty one path so the next Hash has work to do
		b.StopTimer()
		trie.Insert(benchKey(i%benchElemCount), benchKey(i))
		b.StartTimer()
	}
}
