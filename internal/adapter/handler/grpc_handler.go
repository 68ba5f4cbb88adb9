package handler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rl1809/pantry-tracker/internal/adapter/handler/pb"
	"github.com/rl1809/pantry-tracker/internal/core/domain"
	"github.com/rl1809/pantry-tracker/internal/core/service"
)

const requestIDMetadataKey = "x-request-id"

type GRPCHandler struct {
	pb.UnimplementedInventoryServiceServer
	store *service.InventoryStore
}

func NewGRPCHandler(store *service.InventoryStore) *GRPCHandler {
	return &GRPCHandler{store: store}
}

// ListItems filters the current snapshot by the requested search text.
func (h *GRPCHandler) ListItems(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return encodeItems(h.store.Items().Filter(req.GetValue()))
}

func (h *GRPCHandler) AddItem(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "item name is required")
	}
	h.store.Add(context.WithoutCancel(ctx), req.GetValue())
	return encodeItems(h.store.Items())
}

func (h *GRPCHandler) RemoveItem(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "item name is required")
	}
	h.store.Remove(context.WithoutCancel(ctx), req.GetValue())
	return encodeItems(h.store.Items())
}

func encodeItems(list domain.List) (*structpb.Struct, error) {
	items := make([]any, 0, len(list))
	for _, it := range list {
		items = append(items, map[string]any{
			"name":     it.Name,
			"quantity": it.Quantity,
		})
	}
	out, err := structpb.NewStruct(map[string]any{"items": items})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode items: %v", err)
	}
	return out, nil
}

// DecodeItems turns an InventoryService response back into a list.
func DecodeItems(s *structpb.Struct) (domain.List, error) {
	raw, ok := s.GetFields()["items"]
	if !ok {
		return nil, fmt.Errorf("response has no items field")
	}

	values := raw.GetListValue().GetValues()
	list := make(domain.List, 0, len(values))
	for i, v := range values {
		fields := v.GetStructValue().GetFields()
		name, ok := fields["name"]
		if !ok {
			return nil, fmt.Errorf("item %d has no name", i)
		}
		list = append(list, domain.Item{
			Name:     name.GetStringValue(),
			Quantity: int(fields["quantity"].GetNumberValue()),
		})
	}
	return list, nil
}

// UnaryLoggingInterceptor logs every unary call with its request id and latency.
func UnaryLoggingInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(requestIDMetadataKey); len(vals) > 0 {
				id = vals[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Printf("request_id=%s method=%s code=%s duration=%s",
			id, info.FullMethod, status.Code(err), time.Since(start))
		return resp, err
	}
}
