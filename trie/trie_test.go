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
	"hash/fnv"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"

	"github.com/francescomiliani/harmonia/common"
	"github.com/francescomiliani/harmonia/kvdb"
	"github.com/francescomiliani/harmonia/util"
	"github.com/francescomiliani/harmonia/util/keccak256"
)

func newTestRand(t *testing.T) *rand.Rand {
	seed := fnv.New64a()
	seed.Write([]byte(t.Name()))
	return rand.New(rand.NewSource(int64(seed.Sum64())))
}

func newEmpty() *Trie {
	trie, err := New(common.Hash{}, kvdb.NewMemDatabase(), 0, nil)
	util.PanicIfNotNil(err)
	return trie
}

func updateString(trie *Trie, k, v string) error { return trie.Insert([]byte(k), []byte(v)) }
func deleteString(trie *Trie, k string) error    { return trie.Delete([]byte(k)) }
func getString(trie *Trie, k string) []byte {
	value, err := trie.Get([]byte(k))
	util.PanicIfNotNil(err)
	return value
}

func TestEmptyTrie(t *testing.T) {
	assert := assert.New(t)
	trie := newEmpty()
	assert.Equal(emptyRoot, trie.Hash())

	// the zero hash and the canonical empty root both open an empty trie
	db := kvdb.NewMemDatabase()
	for _, root := range []common.Hash{{}, emptyRoot} {
		trie, err := New(root, db, 0, nil)
		assert.NoError(err)
		missing, err := trie.Get([]byte("anything"))
		assert.NoError(err)
		assert.Nil(missing)
	}
}

func TestInsert(t *testing.T) {
	assert := assert.New(t)
	trie := newEmpty()

	updateString(trie, "doe", "reindeer")
	updateString(trie, "dog", "puppy")
	updateString(trie, "dogglesworth", "cat")

	exp := common.HexToHash("8aad789dff2f538bca5d8ea56e8abe10f4c7ba3a5dea95fea4cd6e7c3a1168d3")
	assert.Equal(exp, trie.Hash())

	trie = newEmpty()
	updateString(trie, "A", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	exp = common.HexToHash("d23786fb4a010da3ce639d66d5e904a11dbc02746d1ce25029e53290cabf28ab")
	root, err := trie.Commit()
	assert.NoError(err)
	assert.Equal(exp, root)
}

func TestGet(t *testing.T) {
	assert := assert.New(t)
	trie := newEmpty()
	updateString(trie, "doe", "reindeer")
	updateString(trie, "dog", "puppy")
	updateString(trie, "dogglesworth", "cat")

	for i := 0; i < 2; i++ {
		assert.Equal([]byte("puppy"), getString(trie, "dog"))
		assert.Nil(getString(trie, "unknown"))
		if i == 1 {
			return
		}
		_, err := trie.Commit()
		assert.NoError(err)
	}
}

func TestDelete(t *testing.T) {
	assert := assert.New(t)
	trie := newEmpty()
	vals := []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
		{"shaman", "horse"},
		{"doge", "coin"},
		{"ether", ""},
		{"dog", "puppy"},
		{"shaman", ""},
	}
	for _, val := range vals {
		if val.v != "" {
			updateString(trie, val.k, val.v)
		} else {
			deleteString(trie, val.k)
		}
	}

	exp := common.HexToHash("5991bb8c6514148a29db676a14ac506cd2cd5775ace63c30a4fe457715e9ac84")
	assert.Equal(exp, trie.Hash())
}

func TestEmptyValueDeletes(t *testing.T) {
	assert := assert.New(t)
	trie := newEmpty()
	assert.NoError(updateString(trie, "alpha", "one"))
	before := trie.Hash()

	assert.NoError(updateString(trie, "beta", "two"))
	assert.NoError(trie.Insert([]byte("beta"), nil))
	assert.Equal(before, trie.Hash())

	assert.NoError(updateString(trie, "beta", "two"))
	assert.NoError(trie.Insert([]byte("beta"), []byte{}))
	assert.Equal(before, trie.Hash())
	assert.Nil(getString(trie, "beta"))

	assert.NoError(deleteString(trie, "alpha"))
	assert.Equal(emptyRoot, trie.Hash())
}

func TestOverwrite(t *testing.T) {
	assert := assert.New(t)
	trie := newEmpty()
	assert.NoError(updateString(trie, "dog", "puppy"))
	assert.NoError(updateString(trie, "dog", "hound"))
	assert.Equal([]byte("hound"), getString(trie, "dog"))
}

func TestEmptyKey(t *testing.T) {
	assert := assert.New(t)
	trie := newEmpty()
	assert.NoError(trie.Insert([]byte{}, []byte("root value")))
	assert.Equal([]byte("root value"), getString(trie, ""))
	assert.NoError(trie.Delete([]byte{}))
	assert.Equal(emptyRoot, trie.Hash())
}

func TestHashOrderIndependence(t *testing.T) {
	assert := assert.New(t)
	rnd := newTestRand(t)
	pairs := make(map[string][]byte)
	for i := 0; i < 100; i++ {
		pairs[string(util.RandomBytes(1+rnd.Intn(24), rnd))] = util.RandomBytes(1+rnd.Intn(50), rnd)
	}
	forward, backward := newEmpty(), newEmpty()
	ordered := make([]string, 0, len(pairs))
	for k := range pairs {
		ordered = append(ordered, k)
	}
	for _, k := range ordered {
		assert.NoError(forward.Insert([]byte(k), pairs[k]))
	}
	for i := len(ordered) - 1; i >= 0; i-- {
		assert.NoError(backward.Insert([]byte(ordered[i]), pairs[ordered[i]]))
	}
	assert.Equal(forward.Hash(), backward.Hash())
}

func TestReplication(t *testing.T) {
	assert := assert.New(t)
	db := kvdb.NewMemDatabase()
	trie, err := New(common.Hash{}, db, 0, nil)
	assert.NoError(err)
	vals := []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
		{"shaman", "horse"},
		{"doge", "coin"},
		{"dog", "puppy"},
		{"somethingveryoddindeedthis is", "myothernodedata"},
	}
	for _, val := range vals {
		assert.NoError(updateString(trie, val.k, val.v))
	}
	exp, err := trie.Commit()
	assert.NoError(err)

	// create a new trie on top of the database and check that lookups work
	trie2, err := New(exp, db, 0, nil)
	assert.NoError(err)
	for _, kv := range vals {
		assert.Equal([]byte(kv.v), getString(trie2, kv.k))
	}
	hash, err := trie2.Commit()
	assert.NoError(err)
	assert.Equal(exp, hash)

	// perform some insertions on the new trie
	vals2 := []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
		{"shaman", "horse"},
		{"doge", "coin"},
		{"ether", ""},
		{"dog", "puppy"},
		{"somethingveryoddindeedthis is", "myothernodedata"},
		{"shaman", ""},
	}
	for _, val := range vals2 {
		if val.v != "" {
			assert.NoError(updateString(trie2, val.k, val.v))
		} else {
			assert.NoError(deleteString(trie2, val.k))
		}
	}
	assert.NotEqual(exp, trie2.Hash())
}

func TestMissingRoot(t *testing.T) {
	assert := assert.New(t)
	root := common.HexToHash("0beec7b5ea3f0fdbc95d0dd47f3c5bc275da8a33")
	trie, err := New(root, kvdb.NewMemDatabase(), 0, nil)
	assert.Nil(trie)
	if assert.Error(err) {
		assert.IsType(&MissingNodeError{}, err)
	}
}

func TestMissingNode(t *testing.T) {
	assert := assert.New(t)
	rnd := newTestRand(t)
	db := kvdb.NewMemDatabase()
	trie, err := New(common.Hash{}, db, 0, nil)
	assert.NoError(err)
	keys := make([][]byte, 0, 50)
	for i := 0; i < 50; i++ {
		key := util.RandomBytes(8, rnd)
		keys = append(keys, key)
		assert.NoError(trie.Insert(key, util.RandomBytes(40, rnd)))
	}
	root, err := trie.Commit()
	assert.NoError(err)

	// reopen so only the root node is loaded, then pull the rug
	trie, err = New(root, db, 0, nil)
	assert.NoError(err)
	for _, key := range db.Keys() {
		assert.NoError(db.Delete(key))
	}

	_, err = trie.Get(keys[0])
	if assert.Error(err) {
		missing, ok := err.(*MissingNodeError)
		if assert.True(ok) {
			assert.NotEqual(common.Hash{}, missing.NodeHash)
			assert.Contains(missing.Error(), "missing trie node")
		}
	}
	err = trie.Insert(keys[1], []byte("replacement"))
	if assert.Error(err) {
		assert.IsType(&MissingNodeError{}, err)
	}
	err = trie.Delete(keys[2])
	if assert.Error(err) {
		assert.IsType(&MissingNodeError{}, err)
	}
}

type countingDB struct {
	kvdb.Database
	gets map[string]int
}

func (db *countingDB) Get(key []byte) ([]byte, error) {
	db.gets[string(key)]++
	return db.Database.Get(key)
}

// TestCacheUnload checks that clean nodes dropped out of the generation window
// are unloaded at commit and transparently reloaded on the next access.
func TestCacheUnload(t *testing.T) {
	assert := assert.New(t)
	db := kvdb.NewMemDatabase()
	trie, err := New(common.Hash{}, db, 0, nil)
	assert.NoError(err)
	key1 := "---------------------------------"
	key2 := "---some other branch"
	updateString(trie, key1, "this is the branch of key1.")
	updateString(trie, key2, "this is the branch of key2.")
	root, err := trie.Commit()
	assert.NoError(err)

	// Commit the trie repeatedly and access key1.
	// The branch containing it is loaded from DB exactly two times:
	// in the 0th and 6th iteration.
	counting := &countingDB{Database: db, gets: make(map[string]int)}
	trie, err = New(root, counting, 5, nil)
	assert.NoError(err)
	for i := 0; i < 12; i++ {
		getString(trie, key1)
		_, err := trie.Commit()
		assert.NoError(err)
	}
	// Check that it got loaded two times.
	for dbkey, count := range counting.gets {
		assert.Equalf(2, count, "db key %x load count", []byte(dbkey))
	}
}

func TestSecureKeyMapping(t *testing.T) {
	assert := assert.New(t)
	db := kvdb.NewMemDatabase()
	trie, err := NewSecure(common.Hash{}, db, 0)
	assert.NoError(err)
	vals := []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
	}
	for _, val := range vals {
		assert.NoError(updateString(trie, val.k, val.v))
	}
	for _, val := range vals {
		assert.Equal([]byte(val.v), getString(trie, val.k))
	}
	assert.Nil(getString(trie, "unknown"))

	// key hashing must produce a different tree shape than plain keys
	plain := newEmpty()
	for _, val := range vals {
		assert.NoError(updateString(plain, val.k, val.v))
	}
	assert.NotEqual(plain.Hash(), trie.Hash())

	root, err := trie.Commit()
	assert.NoError(err)
	reopened, err := NewSecure(root, db, 0)
	assert.NoError(err)
	for _, val := range vals {
		assert.Equal([]byte(val.v), getString(reopened, val.k))
	}
}

func TestProof(t *testing.T) {
	assert := assert.New(t)
	trie := newEmpty()
	vals := []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
		{"shaman", "horse"},
		{"doge", "coin"},
		{"dog", "puppy"},
	}
	for _, val := range vals {
		assert.NoError(updateString(trie, val.k, val.v))
	}
	root := trie.Hash()

	for _, val := range vals {
		proof := kvdb.NewMemDatabase()
		assert.NoError(trie.Prove([]byte(val.k), 0, proof))
		value, err := VerifyProof(root, []byte(val.k), proof)
		assert.NoError(err)
		assert.Equal([]byte(val.v), value)
	}

	// absence proof: the path to the missing key shows there is no value
	proof := kvdb.NewMemDatabase()
	assert.NoError(trie.Prove([]byte("dodecahedron"), 0, proof))
	value, err := VerifyProof(root, []byte("dodecahedron"), proof)
	assert.NoError(err)
	assert.Nil(value)

	// a proof with no nodes at all fails outright
	_, err = VerifyProof(root, []byte("do"), kvdb.NewMemDatabase())
	assert.Error(err)
}

func TestProofSecure(t *testing.T) {
	assert := assert.New(t)
	trie, err := NewSecure(common.Hash{}, kvdb.NewMemDatabase(), 0)
	assert.NoError(err)
	assert.NoError(updateString(trie, "dog", "puppy"))
	assert.NoError(updateString(trie, "doge", "coin"))
	root := trie.Hash()

	proof := kvdb.NewMemDatabase()
	assert.NoError(trie.Prove([]byte("dog"), 0, proof))
	value, err := VerifyProof(root, keccak256.Hash([]byte("dog")).Bytes(), proof)
	assert.NoError(err)
	assert.Equal([]byte("puppy"), value)
}

func TestRandomOpsAgainstModel(t *testing.T) {
	assert := assert.New(t)
	rnd := newTestRand(t)
	db := kvdb.NewMemDatabase()
	trie, err := New(common.Hash{}, db, 4, nil)
	assert.NoError(err)
	model := make(map[string][]byte)
	keys := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		keys = append(keys, util.RandomBytes(1+rnd.Intn(8), rnd))
	}
	for i := 0; i < 2000; i++ {
		key := keys[rnd.Intn(len(keys))]
		switch rnd.Intn(4) {
		case 0, 1:
			value := util.RandomBytes(1+rnd.Intn(64), rnd)
			assert.NoError(trie.Insert(key, value))
			model[string(key)] = value
		case 2:
			assert.NoError(trie.Delete(key))
			delete(model, string(key))
		case 3:
			value, err := trie.Get(key)
			assert.NoError(err)
			assert.Equal(model[string(key)], value)
		}
		if i%500 == 499 {
			root, err := trie.Commit()
			assert.NoError(err)
			trie, err = New(root, db, 4, nil)
			assert.NoError(err)
		}
	}
	root, err := trie.Commit()
	assert.NoError(err)
	trie, err = New(root, db, 4, nil)
	assert.NoError(err)
	for k, want := range model {
		got, err := trie.Get([]byte(k))
		assert.NoError(err)
		if !assert.Equal(want, got) {
			t.Log(spew.Sdump(k, want, got))
		}
	}
}
