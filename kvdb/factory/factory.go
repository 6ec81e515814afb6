// Package factory builds stores out of JSON configuration of the form
//
//	{"type": "<backend>", "options": {...}}
//
// so deployments can swap the backing engine without touching code. Backends
// register under a type name; the cachedb entry nests another factory config
// for the store it wraps.
package factory

import (
	"encoding/json"
	"errors"

	"github.com/francescomiliani/harmonia/kvdb"
	"github.com/francescomiliani/harmonia/kvdb/cachedb"
	"github.com/francescomiliani/harmonia/kvdb/leveldb"
	"github.com/francescomiliani/harmonia/kvdb/rocksdb"
	"github.com/francescomiliani/harmonia/util"
)

type Factory interface {
	NewDB() (kvdb.Database, error)
}

var FactoryRegistry = map[string]func() Factory{
	"memory": func() Factory {
		return new(memFactory)
	},
	"leveldb": func() Factory {
		return new(leveldb.Config)
	},
	"rocksdb": func() Factory {
		return new(rocksdb.Config)
	},
	"cachedb": func() Factory {
		return new(cacheFactory)
	},
}

type memFactory struct {
	InitialCapacity int `json:"initialCapacity"`
}

func (this *memFactory) NewDB() (kvdb.Database, error) {
	return kvdb.NewMemDatabaseWithCap(this.InitialCapacity), nil
}

type cacheFactory struct {
	Engine string          `json:"engine"`
	Size   int             `json:"size"`
	Store  *GenericFactory `json:"store"`
}

func (this *cacheFactory) NewDB() (kvdb.Database, error) {
	if this.Store == nil {
		return nil, errors.New("cachedb factory requires a nested store config")
	}
	inner, err := this.Store.NewDB()
	if err != nil {
		return nil, err
	}
	switch this.Engine {
	case "lru":
		return cachedb.WrapLRU(inner, this.Size)
	case "freecache":
		return cachedb.WrapFreecache(inner, this.Size), nil
	case "", "bigcache":
		return cachedb.WrapBigcache(inner, this.Size)
	}
	return nil, errors.New("Unknown cache engine: " + this.Engine)
}

type FactoryType struct {
	Type string `json:"type"`
}

type FactoryOptions struct {
	Factory Factory `json:"options"`
}

type GenericFactory struct {
	FactoryType
	FactoryOptions
}

func (this *GenericFactory) NewDB() (kvdb.Database, error) {
	return this.Factory.NewDB()
}

func (this *GenericFactory) UnmarshalJSON(b []byte) (err error) {
	var errFatal util.ErrorBarrier
	defer util.Recover(errFatal.Catch(util.SetTo(&err)))
	errFatal.CheckIn(json.Unmarshal(b, &this.FactoryType))
	if newFactory, ok := FactoryRegistry[this.Type]; ok {
		this.Factory = newFactory()
	} else {
		return errors.New("Unknown db factory type: " + this.Type)
	}
	errFatal.CheckIn(json.Unmarshal(b, &this.FactoryOptions))
	return
}
