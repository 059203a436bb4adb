package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "parametrix.v1.ParametricEngine"

// EngineServer is the server API of the ParametricEngine service.
type EngineServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Check(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckBatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EvaluationOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConvertUnit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GenerateVariants(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveFamily(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFamily(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListFamilies(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteFamily(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvaluations(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ EngineServer = (*Service)(nil)

type unaryMethod func(EngineServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var methods = []struct {
	name string
	call unaryMethod
}{
	{"Evaluate", EngineServer.Evaluate},
	{"Validate", EngineServer.Validate},
	{"Check", EngineServer.Check},
	{"CheckBatch", EngineServer.CheckBatch},
	{"EvaluationOrder", EngineServer.EvaluationOrder},
	{"ConvertUnit", EngineServer.ConvertUnit},
	{"GenerateVariants", EngineServer.GenerateVariants},
	{"SaveFamily", EngineServer.SaveFamily},
	{"GetFamily", EngineServer.GetFamily},
	{"ListFamilies", EngineServer.ListFamilies},
	{"DeleteFamily", EngineServer.DeleteFamily},
	{"ListEvaluations", EngineServer.ListEvaluations},
}

// ServiceDesc describes the ParametricEngine service for grpc.Server.
var ServiceDesc = func() grpc.ServiceDesc {
	desc := grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*EngineServer)(nil),
		Streams:     []grpc.StreamDesc{},
	}
	for _, m := range methods {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: m.name,
			Handler:    unaryHandler(m.name, m.call),
		})
	}
	return desc
}()

func unaryHandler(name string, call unaryMethod) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EngineServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EngineServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterEngineServer registers srv on s.
func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls ParametricEngine methods by name.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req and decodes the response into resp (which
// may be nil).
func (c *Client) Call(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in := &structpb.Struct{}
	if req != nil {
		var err error
		if in, err = ToStruct(req); err != nil {
			return err
		}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return FromStruct(out, resp)
}
