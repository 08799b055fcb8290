package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"colortrainer/internal/reconcile"
	"colortrainer/pkg/models"
)

const (
	ServiceName        = "colortrainer.HubSync"
	SyncMethod         = "/" + ServiceName + "/Sync"
	GetSubtypeMethod   = "/" + ServiceName + "/GetSubtype"
	ListSubtypesMethod = "/" + ServiceName + "/ListSubtypes"
)

type SyncRequest struct {
	Scope string `json:"scope"`
}

type GetSubtypeRequest struct {
	Slug string `json:"slug"`
}

type ListSubtypesRequest struct {
	Q      string `json:"q"`
	Season string `json:"season"`
	Limit  int32  `json:"limit"`
	Offset int32  `json:"offset"`
}

type ListSubtypesResponse struct {
	Total  int32            `json:"total"`
	Limit  int32            `json:"limit"`
	Offset int32            `json:"offset"`
	Items  []models.Subtype `json:"items"`
}

// HubSyncServer is the server API of the HubSync service.
type HubSyncServer interface {
	Sync(context.Context, *SyncRequest) (*reconcile.SyncResponse, error)
	GetSubtype(context.Context, *GetSubtypeRequest) (*models.Subtype, error)
	ListSubtypes(context.Context, *ListSubtypesRequest) (*ListSubtypesResponse, error)
}

var HubSyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HubSyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sync", Handler: syncHandler},
		{MethodName: "GetSubtype", Handler: getSubtypeHandler},
		{MethodName: "ListSubtypes", Handler: listSubtypesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "colortrainer/hubsync",
}

func RegisterHubSyncServer(s grpc.ServiceRegistrar, srv HubSyncServer) {
	s.RegisterService(&HubSyncServiceDesc, srv)
}

func syncHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SyncRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HubSyncServer).Sync(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SyncMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(HubSyncServer).Sync(ctx, req.(*SyncRequest))
	})
}

func getSubtypeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSubtypeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HubSyncServer).GetSubtype(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetSubtypeMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(HubSyncServer).GetSubtype(ctx, req.(*GetSubtypeRequest))
	})
}

func listSubtypesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListSubtypesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HubSyncServer).ListSubtypes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListSubtypesMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(HubSyncServer).ListSubtypes(ctx, req.(*ListSubtypesRequest))
	})
}

// Client calls the HubSync service over a connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Sync(ctx context.Context, in *SyncRequest, opts ...grpc.CallOption) (*reconcile.SyncResponse, error) {
	out := new(reconcile.SyncResponse)
	if err := c.cc.Invoke(ctx, SyncMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSubtype(ctx context.Context, in *GetSubtypeRequest, opts ...grpc.CallOption) (*models.Subtype, error) {
	out := new(models.Subtype)
	if err := c.cc.Invoke(ctx, GetSubtypeMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListSubtypes(ctx context.Context, in *ListSubtypesRequest, opts ...grpc.CallOption) (*ListSubtypesResponse, error) {
	out := new(ListSubtypesResponse)
	if err := c.cc.Invoke(ctx, ListSubtypesMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
