// Package grpcserver exposes sync runs and subtype lookups over gRPC.
package grpcserver

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"colortrainer/internal/auth"
	"colortrainer/internal/reconcile"
	"colortrainer/internal/subtype"
	"colortrainer/internal/taxonomy"
	"colortrainer/pkg/models"
)

type Server struct {
	Engine   *reconcile.Engine
	Subtypes *subtype.Repo
	Logger   *zap.Logger
}

func NewServer(engine *reconcile.Engine, subtypes *subtype.Repo, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Engine: engine, Subtypes: subtypes, Logger: logger}
}

func (s *Server) Sync(ctx context.Context, req *SyncRequest) (*reconcile.SyncResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	scope, err := reconcile.ParseScope(req.Scope)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp := s.Engine.Run(ctx, scope)
	if !resp.Success {
		return nil, status.Error(codes.Internal, resp.Error)
	}
	return resp, nil
}

func (s *Server) GetSubtype(ctx context.Context, req *GetSubtypeRequest) (*models.Subtype, error) {
	if req == nil || strings.TrimSpace(req.Slug) == "" {
		return nil, status.Error(codes.InvalidArgument, "slug required")
	}

	item, err := s.Subtypes.GetBySlug(ctx, strings.TrimSpace(req.Slug))
	if err != nil {
		s.Logger.Error("get subtype failed", zap.String("slug", req.Slug), zap.Error(err))
		return nil, status.Error(codes.Internal, "get failed")
	}
	if item == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return item, nil
}

func (s *Server) ListSubtypes(ctx context.Context, req *ListSubtypesRequest) (*ListSubtypesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	season := strings.ToLower(strings.TrimSpace(req.Season))
	if season != "" && !taxonomy.Season(season).Valid() {
		return nil, status.Error(codes.InvalidArgument, "invalid season filter")
	}

	query := subtype.ListQuery{
		Q:      strings.TrimSpace(req.Q),
		Season: season,
		Limit:  int(req.Limit),
		Offset: int(req.Offset),
	}

	total, err := s.Subtypes.Count(ctx, query)
	if err != nil {
		return nil, status.Error(codes.Internal, "count failed")
	}
	items, err := s.Subtypes.List(ctx, query)
	if err != nil {
		return nil, status.Error(codes.Internal, "list failed")
	}

	return &ListSubtypesResponse{
		Total:  int32(total),
		Limit:  req.Limit,
		Offset: req.Offset,
		Items:  items,
	}, nil
}

// OperatorInterceptor requires an operator bearer token in the
// "authorization" metadata for Sync. Reads stay open.
func OperatorInterceptor(tokens auth.TokenService) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if info.FullMethod != SyncMethod {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		var header string
		if v := md.Get("authorization"); len(v) > 0 {
			header = v[0]
		}
		raw, ok := auth.BearerToken(header)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		if _, err := tokens.Parse(raw); err != nil {
			if errors.Is(err, auth.ErrForbidden) {
				return nil, status.Error(codes.PermissionDenied, "operator role required")
			}
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor logs each unary call with its status code.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		code := status.Code(err)
		fields := []zap.Field{zap.String("method", info.FullMethod), zap.String("code", code.String())}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("grpc call", append(fields, zap.Error(err))...)
		} else {
			logger.Info("grpc call", fields...)
		}
		return resp, err
	}
}
