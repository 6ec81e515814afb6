package rocksdb

import "github.com/francescomiliani/harmonia/kvdb"

type Config struct {
	File                   string  `json:"file"`
	ReadOnly               bool    `json:"readOnly"`
	ErrorIfExists          bool    `json:"errorIfExists"`
	DontCreateIfMissing    bool    `json:"dontCreateIfMissing"`
	MaxOpenFiles           int     `json:"maxOpenFiles"`
	BloomFilterCapacity    int     `json:"bloomFilterCapacity"`
	BlockCacheSize         uint64  `json:"blockCacheSize"`
	WriteBufferSize        int     `json:"writeBufferSize"`
	Parallelism            int     `json:"parallelism"`
	OptimizeForPointLookup *uint64 `json:"optimizeForPointLookup"`
	MaxFileOpeningThreads  *int    `json:"maxFileOpeningThreads"`
	UseDirectReads         bool    `json:"useDirectReads"`
	AllowMmapReads         bool    `json:"allowMmapReads"`
}

func (this *Config) NewDB() (kvdb.Database, error) {
	db, err := New(this)
	if err != nil {
		return nil, err
	}
	return db, nil
}
