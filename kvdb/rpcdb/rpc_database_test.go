package rpcdb

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/francescomiliani/harmonia/kvdb"
)

func newTestClient(t *testing.T, contentCache bool) (*RpcDatabase, *kvdb.MemDatabase, func()) {
	backing := kvdb.NewMemDatabase()
	lis := bufconn.Listen(256 * 1024)
	server := grpc.NewServer()
	RegisterStoreServer(server, backing)
	go server.Serve(lis)

	conn, err := grpc.Dial("bufconn",
		grpc.WithInsecure(),
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}))
	if err != nil {
		t.Fatal("failed to dial: " + err.Error())
	}
	client := NewRpcDatabase(conn)
	if contentCache {
		client = NewRpcDatabaseWithContentCache(conn)
	}
	return client, backing, func() {
		conn.Close()
		server.Stop()
	}
}

func TestRpcDatabaseRoundTrip(t *testing.T) {
	asrt := assert.New(t)
	db, backing, done := newTestClient(t, false)
	defer done()

	empty, err := db.Empty()
	asrt.NoError(err)
	asrt.True(empty)

	asrt.NoError(db.Put([]byte{0x01}, []byte("remote")))
	ret, err := db.Get([]byte{0x01})
	asrt.NoError(err)
	asrt.Equal([]byte("remote"), ret)

	// the write really landed on the serving store
	ret, _ = backing.Get([]byte{0x01})
	asrt.Equal([]byte("remote"), ret)

	has, err := db.Has([]byte{0x01})
	asrt.NoError(err)
	asrt.True(has)

	empty, _ = db.Empty()
	asrt.False(empty)

	// absence crosses the wire as (nil, nil), not an error
	ret, err = db.Get([]byte("missing"))
	asrt.NoError(err)
	asrt.Nil(ret)

	// a present empty value stays non-nil end to end
	asrt.NoError(db.Put([]byte{0x02}, nil))
	ret, err = db.Get([]byte{0x02})
	asrt.NoError(err)
	asrt.NotNil(ret)
	asrt.Len(ret, 0)

	asrt.NoError(db.Delete([]byte{0x01}))
	has, _ = db.Has([]byte{0x01})
	asrt.False(has)
}

func TestRpcDatabaseContentCache(t *testing.T) {
	asrt := assert.New(t)
	db, backing, done := newTestClient(t, true)
	defer done()

	asrt.NoError(db.Put([]byte{0xaa}, []byte("node")))
	ret, err := db.Get([]byte{0xaa})
	asrt.NoError(err)
	asrt.Equal([]byte("node"), ret)

	// remote mutations behind the cache's back are not observed
	asrt.NoError(backing.Delete([]byte{0xaa}))
	ret, err = db.Get([]byte{0xaa})
	asrt.NoError(err)
	asrt.Equal([]byte("node"), ret)

	// a returned cache hit is the caller's own copy
	ret[0] = 'X'
	ret, _ = db.Get([]byte{0xaa})
	asrt.Equal([]byte("node"), ret)

	// local deletes do evict
	asrt.NoError(db.Delete([]byte{0xaa}))
	ret, err = db.Get([]byte{0xaa})
	asrt.NoError(err)
	asrt.Nil(ret)
}

func TestRpcDatabaseBatch(t *testing.T) {
	asrt := assert.New(t)
	db, backing, done := newTestClient(t, false)
	defer done()

	asrt.NoError(backing.Put([]byte{0x02}, []byte("drop")))

	b := db.NewBatch()
	asrt.NoError(b.Put([]byte{0x01}, []byte("add")))
	asrt.NoError(b.Delete([]byte{0x02}))

	has, _ := backing.Has([]byte{0x01})
	asrt.False(has)

	asrt.NoError(b.Write())
	ret, _ := backing.Get([]byte{0x01})
	asrt.Equal([]byte("add"), ret)
	has, _ = backing.Has([]byte{0x02})
	asrt.False(has)
}
