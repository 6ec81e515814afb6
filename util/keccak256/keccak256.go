package keccak256

import (
	"hash"

	"github.com/francescomiliani/harmonia/common"
	"golang.org/x/crypto/sha3"
)

type Hasher struct {
	state hash_state
	out   *common.Hash
}

// the sha3 state exposes a squeeze-based Read which avoids the
// finalizing copy of Sum
type hash_state interface {
	hash.Hash
	Read([]byte) (int, error)
}

func (self *Hasher) Write(b []byte) {
	self.state.Write(b)
}

func (self *Hasher) Hash() *common.Hash {
	self.state.Read(self.out[:])
	return self.out
}

var hashers = make(chan *Hasher, 256)

func GetHasherFromPool() *Hasher {
	select {
	case h := <-hashers:
		return h
	default:
		return &Hasher{sha3.NewLegacyKeccak256().(hash_state), new(common.Hash)}
	}
}

func ReturnHasherToPool(hasher *Hasher) {
	hasher.state.Reset()
	hasher.out = new(common.Hash)
	select {
	case hashers <- hasher:
	default:
	}
}

func Hash(bs ...[]byte) (ret *common.Hash) {
	hasher := GetHasherFromPool()
	for _, b := range bs {
		hasher.Write(b)
	}
	ret = hasher.Hash()
	ReturnHasherToPool(hasher)
	return
}
