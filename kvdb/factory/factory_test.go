package factory

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactoryMemory(t *testing.T) {
	asrt := assert.New(t)
	var f GenericFactory
	asrt.NoError(json.Unmarshal([]byte(`{"type": "memory", "options": {"initialCapacity": 16}}`), &f))

	db, err := f.NewDB()
	asrt.NoError(err)
	defer db.Close()

	asrt.NoError(db.Put([]byte{0x01}, []byte{0x02}))
	ret, err := db.Get([]byte{0x01})
	asrt.NoError(err)
	asrt.Equal([]byte{0x02}, ret)
}

func TestFactoryUnknownType(t *testing.T) {
	asrt := assert.New(t)
	var f GenericFactory
	err := json.Unmarshal([]byte(`{"type": "bogus"}`), &f)
	asrt.Error(err)
	asrt.Contains(err.Error(), "bogus")
}

func TestFactoryMalformedOptions(t *testing.T) {
	asrt := assert.New(t)
	var f GenericFactory
	err := json.Unmarshal([]byte(`{"type": "memory", "options": {"initialCapacity": "lots"}}`), &f)
	asrt.Error(err)
}

func TestFactoryLevelDB(t *testing.T) {
	asrt := assert.New(t)
	dirname, err := ioutil.TempDir(os.TempDir(), "harmonia_factory_test_")
	asrt.NoError(err)
	defer os.RemoveAll(dirname)

	var f GenericFactory
	cfg := `{"type": "leveldb", "options": {"file": "` + dirname + `", "cache": 16, "handles": 16}}`
	asrt.NoError(json.Unmarshal([]byte(cfg), &f))

	db, err := f.NewDB()
	asrt.NoError(err)
	defer db.Close()

	asrt.NoError(db.Put([]byte("k"), []byte("v")))
	ret, err := db.Get([]byte("k"))
	asrt.NoError(err)
	asrt.Equal([]byte("v"), ret)
}

func TestFactoryNestedCacheDB(t *testing.T) {
	asrt := assert.New(t)
	var f GenericFactory
	cfg := `{
		"type": "cachedb",
		"options": {
			"engine": "lru",
			"size": 64,
			"store": {"type": "memory", "options": {}}
		}
	}`
	asrt.NoError(json.Unmarshal([]byte(cfg), &f))

	db, err := f.NewDB()
	asrt.NoError(err)
	defer db.Close()

	asrt.NoError(db.Put([]byte{0x01}, []byte("cached")))
	ret, err := db.Get([]byte{0x01})
	asrt.NoError(err)
	asrt.Equal([]byte("cached"), ret)

	empty, err := db.Empty()
	asrt.NoError(err)
	asrt.False(empty)
}

func TestFactoryMissingNestedStore(t *testing.T) {
	asrt := assert.New(t)
	var f GenericFactory
	asrt.NoError(json.Unmarshal([]byte(`{"type": "cachedb", "options": {"engine": "lru", "size": 8}}`), &f))
	_, err := f.NewDB()
	asrt.Error(err)
}
