package leveldb

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDB(t *testing.T) (*Database, func()) {
	dirname, err := ioutil.TempDir(os.TempDir(), "harmonia_leveldb_test_")
	if err != nil {
		t.Fatal("failed to create test dir: " + err.Error())
	}
	db, err := New(dirname, 0, 0)
	if err != nil {
		os.RemoveAll(dirname)
		t.Fatal("failed to open test database: " + err.Error())
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dirname)
	}
}

func TestLevelDBPutGet(t *testing.T) {
	asrt := assert.New(t)
	db, done := newTestDB(t)
	defer done()

	asrt.NoError(db.Put([]byte{0x01, 0x02}, []byte("value")))
	ret, err := db.Get([]byte{0x01, 0x02})
	asrt.NoError(err)
	asrt.Equal([]byte("value"), ret)

	has, err := db.Has([]byte{0x01, 0x02})
	asrt.NoError(err)
	asrt.True(has)

	// miss is (nil, nil)
	ret, err = db.Get([]byte("absent"))
	asrt.NoError(err)
	asrt.Nil(ret)

	// present empty value stays apart from absence
	asrt.NoError(db.Put([]byte{0x03}, []byte{}))
	ret, err = db.Get([]byte{0x03})
	asrt.NoError(err)
	asrt.NotNil(ret)
	asrt.Len(ret, 0)

	asrt.NoError(db.Delete([]byte{0x01, 0x02}))
	has, _ = db.Has([]byte{0x01, 0x02})
	asrt.False(has)
}

func TestLevelDBOverwrite(t *testing.T) {
	asrt := assert.New(t)
	db, done := newTestDB(t)
	defer done()

	asrt.NoError(db.Put([]byte{0x01}, []byte("first")))
	asrt.NoError(db.Put([]byte{0x01}, []byte("second")))
	ret, err := db.Get([]byte{0x01})
	asrt.NoError(err)
	asrt.Equal([]byte("second"), ret)
}

func TestLevelDBEmpty(t *testing.T) {
	asrt := assert.New(t)
	db, done := newTestDB(t)
	defer done()

	empty, err := db.Empty()
	asrt.NoError(err)
	asrt.True(empty)

	asrt.NoError(db.Put([]byte{0x01}, []byte{0x01}))
	empty, _ = db.Empty()
	asrt.False(empty)

	asrt.NoError(db.Delete([]byte{0x01}))
	empty, _ = db.Empty()
	asrt.True(empty)
}

func TestLevelDBBatch(t *testing.T) {
	asrt := assert.New(t)
	db, done := newTestDB(t)
	defer done()

	asrt.NoError(db.Put([]byte{0x02}, []byte("drop")))

	b := db.NewBatch()
	asrt.NoError(b.Put([]byte{0x01}, []byte("add")))
	asrt.NoError(b.Delete([]byte{0x02}))

	has, _ := db.Has([]byte{0x01})
	asrt.False(has)

	asrt.NoError(b.Write())
	ret, _ := db.Get([]byte{0x01})
	asrt.Equal([]byte("add"), ret)
	has, _ = db.Has([]byte{0x02})
	asrt.False(has)
}

func TestLevelDBReopen(t *testing.T) {
	asrt := assert.New(t)
	dirname, err := ioutil.TempDir(os.TempDir(), "harmonia_leveldb_test_")
	asrt.NoError(err)
	defer os.RemoveAll(dirname)

	db, err := New(dirname, 0, 0)
	asrt.NoError(err)
	asrt.NoError(db.Put([]byte{0x01}, []byte("persistent")))
	db.Close()

	db, err = New(dirname, 0, 0)
	asrt.NoError(err)
	defer db.Close()
	ret, err := db.Get([]byte{0x01})
	asrt.NoError(err)
	asrt.Equal([]byte("persistent"), ret)
}
