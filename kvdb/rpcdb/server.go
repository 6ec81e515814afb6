package rpcdb

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/golang/protobuf/ptypes/wrappers"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/francescomiliani/harmonia/kvdb"
)

// StoreServer exposes a Database as the store service RpcDatabase speaks.
type StoreServer struct {
	db kvdb.Database
}

func RegisterStoreServer(s *grpc.Server, db kvdb.Database) {
	s.RegisterService(&storeServiceDesc, &StoreServer{db: db})
}

func (this *StoreServer) Get(ctx context.Context, req *wrappers.BytesValue) (*wrappers.BytesValue, error) {
	value, err := this.db.Get(req.Value)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if value == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return &wrappers.BytesValue{Value: value}, nil
}

func (this *StoreServer) Has(ctx context.Context, req *wrappers.BytesValue) (*wrappers.BoolValue, error) {
	has, err := this.db.Has(req.Value)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &wrappers.BoolValue{Value: has}, nil
}

func (this *StoreServer) Empty(ctx context.Context, req *empty.Empty) (*wrappers.BoolValue, error) {
	isEmpty, err := this.db.Empty()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &wrappers.BoolValue{Value: isEmpty}, nil
}

func (this *StoreServer) Put(ctx context.Context, req *kvPair) (*empty.Empty, error) {
	if err := this.db.Put(req.Key, req.Value); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &empty.Empty{}, nil
}

func (this *StoreServer) Delete(ctx context.Context, req *wrappers.BytesValue) (*empty.Empty, error) {
	if err := this.db.Delete(req.Value); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &empty.Empty{}, nil
}

func (this *StoreServer) Close(ctx context.Context, req *empty.Empty) (*empty.Empty, error) {
	this.db.Close()
	return &empty.Empty{}, nil
}

var storeServiceDesc = grpc.ServiceDesc{
	ServiceName: "harmonia.Store",
	HandlerType: (*storeService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: storeGetHandler},
		{MethodName: "Has", Handler: storeHasHandler},
		{MethodName: "Empty", Handler: storeEmptyHandler},
		{MethodName: "Put", Handler: storePutHandler},
		{MethodName: "Delete", Handler: storeDeleteHandler},
		{MethodName: "Close", Handler: storeCloseHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "store.proto",
}

type storeService interface {
	Get(context.Context, *wrappers.BytesValue) (*wrappers.BytesValue, error)
	Has(context.Context, *wrappers.BytesValue) (*wrappers.BoolValue, error)
	Empty(context.Context, *empty.Empty) (*wrappers.BoolValue, error)
	Put(context.Context, *kvPair) (*empty.Empty, error)
	Delete(context.Context, *wrappers.BytesValue) (*empty.Empty, error)
	Close(context.Context, *empty.Empty) (*empty.Empty, error)
}

func storeGetHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrappers.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(storeService).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGet}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(storeService).Get(ctx, req.(*wrappers.BytesValue))
	})
}

func storeHasHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrappers.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(storeService).Has(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodHas}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(storeService).Has(ctx, req.(*wrappers.BytesValue))
	})
}

func storeEmptyHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(storeService).Empty(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodEmpty}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(storeService).Empty(ctx, req.(*empty.Empty))
	})
}

func storePutHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(kvPair)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(storeService).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodPut}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(storeService).Put(ctx, req.(*kvPair))
	})
}

func storeDeleteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrappers.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(storeService).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDelete}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(storeService).Delete(ctx, req.(*wrappers.BytesValue))
	})
}

func storeCloseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(storeService).Close(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodClose}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(storeService).Close(ctx, req.(*empty.Empty))
	})
}
