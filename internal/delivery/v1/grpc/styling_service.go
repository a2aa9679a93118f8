package grpc

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const StyleOutfitFullMethod = "/wearwhat.styling.v1.StylingService/StyleOutfit"

// StylingServiceServer - подбор образа для внутренних клиентов.
// Запрос {user_id, item_id}, ответ в той же форме, что и HTTP.
type StylingServiceServer interface {
	StyleOutfit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var StylingServiceDesc = grpc.ServiceDesc{
	ServiceName: "wearwhat.styling.v1.StylingService",
	HandlerType: (*StylingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StyleOutfit", Handler: styleOutfitHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wearwhat/styling/v1/styling.proto",
}

func styleOutfitHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StylingServiceServer).StyleOutfit(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: StyleOutfitFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StylingServiceServer).StyleOutfit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type StylingService struct {
	stylingUC usecase.StylingUC
	logger    logger.Logger
}

func NewStylingService(stylingUC usecase.StylingUC, logger logger.Logger) *StylingService {
	return &StylingService{stylingUC: stylingUC, logger: logger}
}

func (s *StylingService) StyleOutfit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.StyleOutfit"

	ownerID := stringField(req, "user_id")
	itemID := stringField(req, "item_id")
	if ownerID == "" {
		return nil, GRPCErrorResponse(e.ErrUnauthorized)
	}
	if itemID == "" {
		return nil, GRPCErrorResponse(e.ErrStatusBadRequest)
	}

	res, err := s.stylingUC.StyleOutfit(ctx, usecase.NewStyleOutfitReq(ownerID, itemID))
	if err != nil {
		s.logger.Warnf("%s %s for %s: %v", op, itemID, ownerID, err)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	out, err := structpb.NewStruct(toStyleOutfitPayload(res))
	if err != nil {
		s.logger.Errorf(e.Wrap(op, err), "%s: build response", op)
		return nil, GRPCErrorResponse(err)
	}
	return out, nil
}

func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.GetStringValue())
}

func toGarmentPayload(g *domain.Garment) map[string]any {
	attrs := make(map[string]any, len(g.Attributes))
	for k, v := range g.Attributes {
		attrs[k] = v
	}

	return map[string]any{
		"id":            g.ID,
		"image_url":     g.ImageURL,
		"categoryGroup": string(g.CategoryGroup),
		"category":      g.Category,
		"attributes":    attrs,
	}
}

func toStyleOutfitPayload(res *usecase.StyledOutfitRes) map[string]any {
	items := make([]any, 0, len(res.MatchedItems))
	for _, item := range res.MatchedItems {
		p := toGarmentPayload(item.Garment)
		p["is_source"] = item.IsSource
		score, _ := decimal.NewFromFloat32(item.Score).Round(4).Float64()
		p["match_score"] = score
		items = append(items, p)
	}

	var combined any
	if res.CompositeImageURL != "" {
		combined = res.CompositeImageURL
	}

	return map[string]any{
		"success":            true,
		"source_item":        toGarmentPayload(res.SourceItem),
		"combined_image_url": combined,
		"matched_items":      items,
		"total_items":        res.TotalItemCount,
	}
}
