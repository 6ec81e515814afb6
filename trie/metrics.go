package trie

import "github.com/ethereum/go-ethereum/metrics"

var cacheMissCounter = metrics.NewRegisteredCounter("trie/cachemiss", nil)
var cacheUnloadCounter = metrics.NewRegisteredCounter("trie/cacheunload", nil)

// CacheMisses retrieves a global counter measuring the number of cache misses
// the trie had since process startup. This isn't useful for anything apart
// from trie debugging purposes.
func CacheMisses() int64 {
	return cacheMissCounter.Count()
}

// CacheUnloads retrieves a global counter measuring the number of cache unloads
// the trie did since process startup. This isn't useful for anything apart
// from trie debugging purposes.
func CacheUnloads() int64 {
	return cacheUnloadCounter.Count()
}
