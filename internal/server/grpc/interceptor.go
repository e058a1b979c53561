package grpc

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const requestIDMetadataKey = "x-request-id"

// requestIDInterceptor carries the caller's x-request-id (or a fresh one)
// into the handler context for log correlation.
func (s *GRPCServer) requestIDInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	var requestID string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(requestIDMetadataKey)
		if len(values) > 0 {
			requestID = values[0]
		}
	}
	if len(requestID) == 0 {
		requestID = uuid.NewString()
	}

	ctx = logging.WithRequestID(ctx, requestID)
	s.logger.Debug(ctx, "grpc call", "method", info.FullMethod)

	return handler(ctx, req)
}
