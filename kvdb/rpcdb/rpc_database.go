// Package rpcdb is a Database client for a remote store service reachable
// over gRPC. Every operation is a unary call; an absent key travels as a
// NotFound status and turns back into (nil, nil) here.
package rpcdb

import (
	"context"

	"github.com/cornelk/hashmap"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/empty"
	"github.com/golang/protobuf/ptypes/wrappers"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/francescomiliani/harmonia/common"
	"github.com/francescomiliani/harmonia/kvdb"
)

const (
	methodGet    = "/harmonia.Store/Get"
	methodHas    = "/harmonia.Store/Has"
	methodEmpty  = "/harmonia.Store/Empty"
	methodPut    = "/harmonia.Store/Put"
	methodDelete = "/harmonia.Store/Delete"
	methodClose  = "/harmonia.Store/Close"
)

// kvPair mirrors the Put request message of the store service proto.
type kvPair struct {
	Key   []byte `protobuf:"bytes,1,opt,name=key,proto3"`
	Value []byte `protobuf:"bytes,2,opt,name=value,proto3"`
}

func (m *kvPair) Reset()         { *m = kvPair{} }
func (m *kvPair) String() string { return proto.CompactTextString(m) }
func (*kvPair) ProtoMessage()    {}

type RpcDatabase struct {
	conn *grpc.ClientConn
	// optional read cache, keyed by key content
	cache *hashmap.HashMap
}

func NewRpcDatabase(conn *grpc.ClientConn) *RpcDatabase {
	return &RpcDatabase{conn: conn}
}

// NewRpcDatabaseWithContentCache adds a concurrent read-through cache in
// front of the remote store. Meant for content-addressed data, where the
// value under a key never changes once written; local writes keep the cache
// coherent, remote ones are never observed.
func NewRpcDatabaseWithContentCache(conn *grpc.ClientConn) *RpcDatabase {
	return &RpcDatabase{conn: conn, cache: &hashmap.HashMap{}}
}

func (this *RpcDatabase) Get(key []byte) ([]byte, error) {
	if this.cache != nil {
		if val, cached := this.cache.Get(string(key)); cached {
			return common.CopyBytes(val.([]byte)), nil
		}
	}
	resp := new(wrappers.BytesValue)
	err := this.conn.Invoke(context.Background(), methodGet, &wrappers.BytesValue{Value: key}, resp)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ret := resp.Value
	if ret == nil {
		ret = []byte{}
	}
	if this.cache != nil {
		this.cache.Set(string(key), common.CopyBytes(ret))
	}
	return ret, nil
}

func (this *RpcDatabase) Has(key []byte) (bool, error) {
	if this.cache != nil {
		if _, cached := this.cache.Get(string(key)); cached {
			return true, nil
		}
	}
	resp := new(wrappers.BoolValue)
	if err := this.conn.Invoke(context.Background(), methodHas, &wrappers.BytesValue{Value: key}, resp); err != nil {
		return false, err
	}
	return resp.Value, nil
}

func (this *RpcDatabase) Empty() (bool, error) {
	resp := new(wrappers.BoolValue)
	if err := this.conn.Invoke(context.Background(), methodEmpty, &empty.Empty{}, resp); err != nil {
		return false, err
	}
	return resp.Value, nil
}

func (this *RpcDatabase) Put(key []byte, value []byte) error {
	err := this.conn.Invoke(context.Background(), methodPut, &kvPair{Key: key, Value: value}, &empty.Empty{})
	if err == nil && this.cache != nil {
		this.cache.Set(string(key), common.CopyBytes(value))
	}
	return err
}

func (this *RpcDatabase) Delete(key []byte) error {
	err := this.conn.Invoke(context.Background(), methodDelete, &wrappers.BytesValue{Value: key}, &empty.Empty{})
	if err == nil && this.cache != nil {
		this.cache.Del(string(key))
	}
	return err
}

func (this *RpcDatabase) Close() {
	if err := this.conn.Invoke(context.Background(), methodClose, &empty.Empty{}, &empty.Empty{}); err != nil {
		panic(err)
	}
}

func (this *RpcDatabase) NewBatch() kvdb.Batch {
	return kvdb.NewMemBatch(this)
}
