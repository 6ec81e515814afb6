package main

import (
	"io/ioutil"
	"net"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"google.golang.org/grpc"

	"github.com/francescomiliani/harmonia/kvdb/factory"
	"github.com/francescomiliani/harmonia/kvdb/rpcdb"
	"github.com/francescomiliani/harmonia/util"
)

// Serves a store described by a factory config file over the rpcdb wire
// protocol, so remote processes can mount it through rpcdb.NewRpcDatabase.
//
// Usage: store_server <config.json> <listen_addr>
func main() {
	config_path, listen_addr := os.Args[1], os.Args[2]
	config_json, err_0 := ioutil.ReadFile(config_path)
	util.PanicIfNotNil(err_0)
	db_factory := new(factory.GenericFactory)
	util.PanicIfNotNil(db_factory.UnmarshalJSON(config_json))
	db, err_1 := db_factory.NewDB()
	util.PanicIfNotNil(err_1)
	defer db.Close()
	listener, err_2 := net.Listen("tcp", listen_addr)
	util.PanicIfNotNil(err_2)
	server := grpc.NewServer()
	rpcdb.RegisterStoreServer(server, db)
	log.Info("Serving store", "addr", listener.Addr(), "type", db_factory.Type)
	util.PanicIfNotNil(server.Serve(listener))
}
