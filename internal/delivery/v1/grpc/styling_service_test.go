package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeStylingUC struct {
	res     *usecase.StyledOutfitRes
	err     error
	lastReq *usecase.StyleOutfitReq
}

func (f *fakeStylingUC) StyleOutfit(_ context.Context, req *usecase.StyleOutfitReq) (*usecase.StyledOutfitRes, error) {
	f.lastReq = req
	return f.res, f.err
}

func (f *fakeStylingUC) StyleOutfitWithOptions(context.Context, *usecase.StyleOptionsReq) (*usecase.StyleOptionsRes, error) {
	return nil, nil
}

func dialStyling(t *testing.T, uc usecase.StylingUC) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	server.RegisterService(&StylingServiceDesc, NewStylingService(uc, logger.NewSlogLoggerWithWriter(io.Discard, slog.LevelError)))
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func styleOutfit(t *testing.T, conn *grpc.ClientConn, fields map[string]any) (*structpb.Struct, error) {
	t.Helper()

	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)

	res := new(structpb.Struct)
	err = conn.Invoke(context.Background(), StyleOutfitFullMethod, req, res)
	return res, err
}

func TestStylingService_StyleOutfit(t *testing.T) {
	source := &domain.Garment{ID: "src", CategoryGroup: domain.UpperWear, Category: "shirt", Attributes: map[string]string{"color": "white"}}
	shoes := &domain.Garment{ID: "sh", CategoryGroup: domain.Footwear, Category: "sneakers"}

	uc := &fakeStylingUC{res: usecase.NewStyledOutfitRes(source, "", []domain.MatchedItem{
		domain.NewSourceItem(source),
		domain.NewMatchedItem(shoes, 0.654321),
	})}
	conn := dialStyling(t, uc)

	res, err := styleOutfit(t, conn, map[string]any{"user_id": "user-1", "item_id": "src"})
	require.NoError(t, err)

	assert.Equal(t, "user-1", uc.lastReq.OwnerID)
	assert.Equal(t, "src", uc.lastReq.ItemID)

	m := res.AsMap()
	assert.Equal(t, true, m["success"])
	assert.Nil(t, m["combined_image_url"])
	assert.Equal(t, float64(2), m["total_items"])

	items := m["matched_items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, true, first["is_source"])
	assert.Equal(t, "white", first["attributes"].(map[string]any)["color"])
	second := items[1].(map[string]any)
	assert.Equal(t, "footwear", second["categoryGroup"])
	assert.Equal(t, 0.6543, second["match_score"])
}

func TestStylingService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		err    error
		code   codes.Code
	}{
		{"нет пользователя", map[string]any{"item_id": "x"}, nil, codes.Unauthenticated},
		{"нет вещи", map[string]any{"user_id": "u"}, nil, codes.InvalidArgument},
		{"вещь не найдена", map[string]any{"user_id": "u", "item_id": "x"}, e.ErrGarmentNotFound, codes.NotFound},
		{"нет эмбеддинга", map[string]any{"user_id": "u", "item_id": "x"}, e.ErrMissingEmbedding, codes.FailedPrecondition},
		{"индекс недоступен", map[string]any{"user_id": "u", "item_id": "x"}, e.ErrUpstreamUnavailable, codes.Unavailable},
		{"прочее", map[string]any{"user_id": "u", "item_id": "x"}, io.ErrUnexpectedEOF, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dialStyling(t, &fakeStylingUC{err: tt.err})

			_, err := styleOutfit(t, conn, tt.fields)

			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestGRPCErrorResponse_MessageMatchesHTTP(t *testing.T) {
	st, _ := status.FromError(GRPCErrorResponse(e.Wrap("op", e.ErrGarmentNotFound)))
	assert.Equal(t, msgItemNotFound, st.Message())
}
