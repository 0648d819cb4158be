package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the gRPC service path every method below is
// registered under, e.g. "/chord.Node/FindSuccessor".
const serviceName = "chord.Node"

// NodeServer is implemented by the node-side dispatcher
// (internal/server) and invoked by grpc once per inbound RPC. It is
// the dispatcher side of accept/deserialize/hand-off
// contract, and the tagged-variant replacement for the source's
// reflection-based method lookup.
type NodeServer interface {
	Successor(ctx context.Context, _ *Empty) (*NodeMsg, error)
	GetPredecessor(ctx context.Context, _ *Empty) (*NodeMsg, error)
	SetPredecessor(ctx context.Context, n *NodeMsg) (*Empty, error)
	FindSuccessor(ctx context.Context, id *IDMsg) (*NodeMsg, error)
	FindPredecessor(ctx context.Context, id *IDMsg) (*NodeMsg, error)
	ClosestPrecedingFinger(ctx context.Context, id *IDMsg) (*NodeMsg, error)
	UpdateFingerTable(ctx context.Context, req *UpdateFingerTableRequest) (*Empty, error)
	MigrateData(ctx context.Context, _ *Empty) (*Empty, error)
	AddKey(ctx context.Context, kv *KeyValueMsg) (*AckMsg, error)
	GetKeyData(ctx context.Context, k *KeyMsg) (*KeyDataMsg, error)
	Populate(ctx context.Context, kv *KeyValueMsg) (*AckMsg, error)
	Query(ctx context.Context, k *KeyMsg) (*KeyDataMsg, error)
}

func handler[Req, Resp any](call func(NodeServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NodeServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName}
		h := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NodeServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, h)
	}
}

// ServiceDesc is the hand-authored stand-in for a protoc-generated
// *_grpc.pb.go's ServiceDesc: it wires each RPC name to its
// NodeServer method.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*NodeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Successor", Handler: handler(NodeServer.Successor)},
		{MethodName: "GetPredecessor", Handler: handler(NodeServer.GetPredecessor)},
		{MethodName: "SetPredecessor", Handler: handler(NodeServer.SetPredecessor)},
		{MethodName: "FindSuccessor", Handler: handler(NodeServer.FindSuccessor)},
		{MethodName: "FindPredecessor", Handler: handler(NodeServer.FindPredecessor)},
		{MethodName: "ClosestPrecedingFinger", Handler: handler(NodeServer.ClosestPrecedingFinger)},
		{MethodName: "UpdateFingerTable", Handler: handler(NodeServer.UpdateFingerTable)},
		{MethodName: "MigrateData", Handler: handler(NodeServer.MigrateData)},
		{MethodName: "AddKey", Handler: handler(NodeServer.AddKey)},
		{MethodName: "GetKeyData", Handler: handler(NodeServer.GetKeyData)},
		{MethodName: "Populate", Handler: handler(NodeServer.Populate)},
		{MethodName: "Query", Handler: handler(NodeServer.Query)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpc/service.go",
}

// RegisterNodeServer registers srv's implementation of NodeServer
// against a gRPC server. It sets no codec itself: the server decodes
// each call with the registered codec named by the call's
// content-subtype, which NodeClient sets to gob.
func RegisterNodeServer(s grpc.ServiceRegistrar, srv NodeServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// fullMethod builds the "/service/Method" string grpc.Invoke expects.
func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// NodeClient is a thin, typed wrapper around a grpc.ClientConnInterface
// that issues the RPCs by name, forcing the gob codec to
// match the server. It is this module's equivalent of a
// protoc-generated client stub.
type NodeClient struct {
	cc grpc.ClientConnInterface
}

// NewNodeClient wraps an established connection.
func NewNodeClient(cc grpc.ClientConnInterface) *NodeClient {
	return &NodeClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *NodeClient, method string, req any) (*Resp, error) {
	resp := new(Resp)
	if err := c.cc.Invoke(ctx, fullMethod(method), req, resp, grpc.ForceCodec(gobCodec{})); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *NodeClient) Successor(ctx context.Context) (*NodeMsg, error) {
	return invoke[NodeMsg](ctx, c, "Successor", &Empty{})
}

func (c *NodeClient) GetPredecessor(ctx context.Context) (*NodeMsg, error) {
	return invoke[NodeMsg](ctx, c, "GetPredecessor", &Empty{})
}

func (c *NodeClient) SetPredecessor(ctx context.Context, n *NodeMsg) (*Empty, error) {
	return invoke[Empty](ctx, c, "SetPredecessor", n)
}

func (c *NodeClient) FindSuccessor(ctx context.Context, id *IDMsg) (*NodeMsg, error) {
	return invoke[NodeMsg](ctx, c, "FindSuccessor", id)
}

func (c *NodeClient) FindPredecessor(ctx context.Context, id *IDMsg) (*NodeMsg, error) {
	return invoke[NodeMsg](ctx, c, "FindPredecessor", id)
}

func (c *NodeClient) ClosestPrecedingFinger(ctx context.Context, id *IDMsg) (*NodeMsg, error) {
	return invoke[NodeMsg](ctx, c, "ClosestPrecedingFinger", id)
}

func (c *NodeClient) UpdateFingerTable(ctx context.Context, req *UpdateFingerTableRequest) (*Empty, error) {
	return invoke[Empty](ctx, c, "UpdateFingerTable", req)
}

func (c *NodeClient) MigrateData(ctx context.Context) (*Empty, error) {
	return invoke[Empty](ctx, c, "MigrateData", &Empty{})
}

func (c *NodeClient) AddKey(ctx context.Context, kv *KeyValueMsg) (*AckMsg, error) {
	return invoke[AckMsg](ctx, c, "AddKey", kv)
}

func (c *NodeClient) GetKeyData(ctx context.Context, k *KeyMsg) (*KeyDataMsg, error) {
	return invoke[KeyDataMsg](ctx, c, "GetKeyData", k)
}

func (c *NodeClient) Populate(ctx context.Context, kv *KeyValueMsg) (*AckMsg, error) {
	return invoke[AckMsg](ctx, c, "Populate", kv)
}

func (c *NodeClient) Query(ctx context.Context, k *KeyMsg) (*KeyDataMsg, error) {
	return invoke[KeyDataMsg](ctx, c, "Query", k)
}
