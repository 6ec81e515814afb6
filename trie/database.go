package trie

import "github.com/francescomiliani/harmonia/kvdb"

// Database is the backing store a trie reads resolved nodes from and commits
// collapsed nodes to. Any kvdb.Database satisfies it.
type Database interface {
	kvdb.Getter
	kvdb.Putter
}
