package trie

import "github.com/francescomiliani/harmonia/util/keccak256"

// KeyHashingStorageStrategy hashes every key before it enters the trie, which
// keeps the tree balanced and hides key structure from proofs.
type KeyHashingStorageStrategy byte

func (KeyHashingStorageStrategy) MapKey(key []byte) (mpt_key []byte, err error) {
	return keccak256.Hash(key).Bytes(), nil
}
