// Package aspectloggrpc applies aspectlog method interception to gRPC calls.
//
// The RPC's full method name ("/package.Service/Method") is the name matched
// against an aspectlog.Registry and shown in every line. Handler errors,
// including status errors, are returned to gRPC unchanged.
//
//	ic, _ := aspectlog.NewInterceptor(cfg, svc)
//	ic = ic.WithRegistry(aspectlog.NewRegistry("/stations.Lookup/Get"))
//	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(aspectloggrpc.UnaryServerInterceptor(ic)))
package aspectloggrpc
