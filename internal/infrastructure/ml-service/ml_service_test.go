package ml_service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// fakeConn отвечает по первому байту изображения: 1 - футболка, 2 - ботинки.
type fakeConn struct {
	mu        sync.Mutex
	calls     map[string]int
	failFirst codes.Code
}

func (f *fakeConn) Invoke(_ context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
	first := f.calls[method] == 1
	f.mu.Unlock()

	if first && f.failFirst != codes.OK {
		return status.Error(f.failFirst, "boom")
	}

	var resp proto.Message
	switch method {
	case classifyImageMethod:
		data := args.(*wrapperspb.BytesValue).GetValue()
		resp = classifyResponse(data[0])
	case embedImageMethod:
		data := args.(*wrapperspb.BytesValue).GetValue()
		resp = listOf(float64(data[0]), 0)
	case embedTextMethod:
		if args.(*wrapperspb.StringValue).GetValue() == "" {
			resp = &structpb.ListValue{}
		} else {
			resp = listOf(0.5, 0.5)
		}
	default:
		return status.Error(codes.Unimplemented, method)
	}

	proto.Merge(reply.(proto.Message), resp)
	return nil
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not supported")
}

func classifyResponse(b byte) *structpb.Struct {
	var raw map[string]any
	switch b {
	case 1:
		raw = map[string]any{
			fieldCategoryGroup: "UpperWear",
			fieldCategory:      "T-Shirt",
			fieldAttributes:    map[string]any{"color": "Blue", "pattern": "", "size": 42},
			fieldModelVersion:  "clip-vit-b32",
		}
	default:
		raw = map[string]any{
			fieldCategoryGroup: "shoes",
			fieldCategory:      "",
		}
	}
	s, _ := structpb.NewStruct(raw)
	return s
}

func listOf(values ...float64) *structpb.ListValue {
	l := &structpb.ListValue{}
	for _, v := range values {
		l.Values = append(l.Values, structpb.NewNumberValue(v))
	}
	return l
}

func newTestService(conn grpc.ClientConnInterface, retries int) *MLService {
	m := NewMLService(conn, &cfg.MLServiceCfg{MaxConcurrent: 2, MaxRetries: retries, Timeout: time.Second},
		logger.NewSlogLoggerWithWriter(io.Discard, slog.LevelError))
	m.policy.Base = time.Millisecond
	m.policy.Max = time.Millisecond
	return m
}

func TestAnalyzeImages_KeepsOrderAndNormalizesTags(t *testing.T) {
	m := newTestService(&fakeConn{}, 1)

	res, err := m.AnalyzeImages(context.Background(), usecase.NewAnalyzeImagesReq([]usecase.GarmentImage{
		{Data: []byte{1}, Name: "tee.jpg"},
		{Data: []byte{2}, Name: "boots.jpg"},
	}))
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, domain.UpperWear, res[0].Tags.CategoryGroup)
	assert.Equal(t, "T-Shirt", res[0].Tags.Category)
	assert.Equal(t, map[string]string{"color": "Blue"}, res[0].Tags.Attributes)
	assert.Equal(t, []float32{1, 0}, res[0].Vector)
	assert.Equal(t, "clip-vit-b32", res[0].ModelVersion)

	assert.Equal(t, domain.OtherItems, res[1].Tags.CategoryGroup)
	assert.Equal(t, domain.DefaultUnknown, res[1].Tags.Category)
	assert.Equal(t, []float32{2, 0}, res[1].Vector)
}

func TestInvoke_RetriesUnavailable(t *testing.T) {
	conn := &fakeConn{failFirst: codes.Unavailable}
	m := newTestService(conn, 2)

	vec, err := m.EmbedText(context.Background(), "red dress")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, vec)
	assert.Equal(t, 2, conn.calls[embedTextMethod])
}

func TestInvoke_DoesNotRetryInvalidArgument(t *testing.T) {
	conn := &fakeConn{failFirst: codes.InvalidArgument}
	m := newTestService(conn, 3)

	_, err := m.EmbedText(context.Background(), "red dress")
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(errors.Unwrap(err)))
	assert.Equal(t, 1, conn.calls[embedTextMethod])
}

func TestEmbedText_EmptyVector(t *testing.T) {
	m := newTestService(&fakeConn{}, 1)

	_, err := m.EmbedText(context.Background(), "")
	assert.ErrorIs(t, err, e.ErrVectorEmbeddingEmpty)
}

func TestMockEncoder_Deterministic(t *testing.T) {
	enc := NewMockEncoder(16)
	req := usecase.NewAnalyzeImagesReq([]usecase.GarmentImage{{Data: []byte("same")}, {Data: []byte("same")}})

	res, err := enc.AnalyzeImages(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, res[0], res[1])
	assert.Len(t, res[0].Vector, 16)
	assert.True(t, res[0].Tags.CategoryGroup.Valid())
	assert.True(t, domain.KnownCategory(res[0].Tags.CategoryGroup, res[0].Tags.Category))

	var norm float64
	for _, v := range res[0].Vector {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-4)

	a, _ := enc.EmbedText(context.Background(), "red dress")
	b, _ := enc.EmbedText(context.Background(), "red dress")
	c, _ := enc.EmbedText(context.Background(), "blue jeans")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
