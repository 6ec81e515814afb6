package leveldb

import "github.com/francescomiliani/harmonia/kvdb"

type Config struct {
	File    string `json:"file"`
	Cache   int    `json:"cache"`
	Handles int    `json:"handles"`
}

func (this *Config) NewDB() (kvdb.Database, error) {
	db, err := New(this.File, this.Cache, this.Handles)
	if err != nil {
		return nil, err
	}
	return db, nil
}
