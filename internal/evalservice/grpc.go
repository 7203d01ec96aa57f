// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     evalservice
// Description: gRPC binding of the evaluation service using structpb messages
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package evalservice

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
)

const (
	// ServiceName is the fully qualified gRPC service name
	ServiceName = "mlox.v1.Evaluator"

	// MethodEvaluate is the full method path of Evaluate
	MethodEvaluate = "/" + ServiceName + "/Evaluate"
)

// EvaluatorServer is the server API of mlox.v1.Evaluator.
// Requests carry {"source": string, "mode": string}.
type EvaluatorServer interface {
	Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// EvaluatorServiceDesc describes mlox.v1.Evaluator for grpc.Server
var EvaluatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EvaluatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    evaluateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mlox/v1/evaluator",
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvaluatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodEvaluate,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EvaluatorServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterEvaluatorServer registers srv on a gRPC server
func RegisterEvaluatorServer(registrar grpc.ServiceRegistrar, srv EvaluatorServer) {
	registrar.RegisterService(&EvaluatorServiceDesc, srv)
}

// GRPCServer adapts Service to EvaluatorServer
type GRPCServer struct {
	service *Service
}

// NewGRPCServer creates the gRPC adapter
func NewGRPCServer(service *Service) *GRPCServer {
	return &GRPCServer{service: service}
}

// Evaluate implements EvaluatorServer
func (g *GRPCServer) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	sourceValue, ok := fields["source"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "source is required")
	}
	if _, isString := sourceValue.GetKind().(*structpb.Value_StringValue); !isString {
		return nil, status.Error(codes.InvalidArgument, "source must be a string")
	}

	mode := Mode(fields["mode"].GetStringValue())

	resp, err := g.service.Evaluate(ctx, sourceValue.GetStringValue(), mode)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := ResponseToStruct(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// toStatus maps platform error codes to gRPC codes
func toStatus(err error) error {
	switch mdwerror.GetCode(err) {
	case mdwerror.CodeInvalidInput:
		return status.Error(codes.InvalidArgument, err.Error())
	case mdwerror.CodeCanceled:
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// ResponseToStruct encodes a response through its JSON form so both
// transports share one schema
func ResponseToStruct(resp *Response) (*structpb.Struct, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return out, nil
}

// ResponseFromStruct decodes a response produced by ResponseToStruct
func ResponseFromStruct(in *structpb.Struct) (*Response, error) {
	data, err := in.MarshalJSON()
	if err != nil {
		return nil, err
	}
	resp := &Response{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
