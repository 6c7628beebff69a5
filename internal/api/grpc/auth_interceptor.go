package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/spec-kit/blog-service/internal/auth"
)

// protectedMethods lists the RPCs that require a valid bearer token.
// Register and Login stay public.
var protectedMethods = map[string]struct{}{
	MethodCreatePost: {},
	MethodGetPost:    {},
	MethodUpdatePost: {},
	MethodDeletePost: {},
	MethodListPosts:  {},
}

// UnaryAuthInterceptor enforces bearer-token authentication on protected
// RPCs. It reads the `authorization` metadata entry and feeds it to the same
// extraction path the HTTP middleware uses, so both transports reach the
// same trust decision for the same token.
func UnaryAuthInterceptor(tokens *auth.TokenManager, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, protected := protectedMethods[info.FullMethod]; !protected {
			return handler(ctx, req)
		}

		authCtx := auth.Extract(authorizationFromContext(ctx), tokens)
		if !authCtx.Authenticated() {
			logger.Debug("rpc rejected", zap.String("method", info.FullMethod), zap.Error(authCtx.Err))
			return nil, status.Error(codes.Unauthenticated, "authentication required")
		}

		return handler(auth.WithSubject(ctx, authCtx.SubjectID), req)
	}
}

// authorizationFromContext returns the first `authorization` metadata value.
// Incoming metadata keys are ASCII-lowercased by grpc-go.
func authorizationFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
