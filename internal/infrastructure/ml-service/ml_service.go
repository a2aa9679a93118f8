package ml_service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/retry"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Методы ML-сервиса. Сообщения - well-known типы protobuf, поэтому сгенерированный клиент не нужен.
const (
	classifyImageMethod = "/wearwhat.ml.v1.EncoderService/ClassifyImage"
	embedImageMethod    = "/wearwhat.ml.v1.EncoderService/EmbedImage"
	embedTextMethod     = "/wearwhat.ml.v1.EncoderService/EmbedText"
)

// Поля ответа ClassifyImage.
const (
	fieldCategoryGroup = "category_group"
	fieldCategory      = "category"
	fieldAttributes    = "attributes"
	fieldModelVersion  = "model_version"
)

// MLService клиент для взаимодействия с внешним ML-сервисом (CLIP-классификатор и энкодер)
type MLService struct {
	conn          grpc.ClientConnInterface
	maxConcurrent int
	policy        retry.Policy
	timeout       time.Duration
	logger        logger.Logger
}

func NewMLService(conn grpc.ClientConnInterface, cfg *cfg.MLServiceCfg, logger logger.Logger) *MLService {
	policy := retry.Policy{Attempts: cfg.MaxRetries, Base: time.Second, Max: 30 * time.Second}

	return &MLService{
		conn:          conn,
		maxConcurrent: max(cfg.MaxConcurrent, 1),
		policy:        policy,
		timeout:       cfg.Timeout,
		logger:        logger,
	}
}

// AnalyzeImages классифицирует и векторизует изображения параллельно с ограничением конкурентности.
// Результат в порядке входа, любая ошибка отменяет остальные запросы.
func (m *MLService) AnalyzeImages(ctx context.Context, req *usecase.AnalyzeImagesReq) ([]usecase.AnalyzeImageRes, error) {
	const op = "MLService.AnalyzeImages"

	results := make([]usecase.AnalyzeImageRes, len(req.Images))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(m.maxConcurrent)

	for i, image := range req.Images {
		g.Go(func() error {
			res, err := m.analyzeImage(gCtx, image.Data)
			if err != nil {
				return fmt.Errorf("image %d (%s): %w", i, image.Name, err)
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return results, nil
}

func (m *MLService) analyzeImage(ctx context.Context, data []byte) (*usecase.AnalyzeImageRes, error) {
	tags := new(structpb.Struct)
	if err := m.invoke(ctx, classifyImageMethod, wrapperspb.Bytes(data), tags); err != nil {
		return nil, err
	}

	vector := new(structpb.ListValue)
	if err := m.invoke(ctx, embedImageMethod, wrapperspb.Bytes(data), vector); err != nil {
		return nil, err
	}

	res := &usecase.AnalyzeImageRes{
		Tags:         toGarmentTags(tags),
		Vector:       toVector(vector),
		ModelVersion: tags.GetFields()[fieldModelVersion].GetStringValue(),
	}
	if len(res.Vector) == 0 {
		return nil, e.ErrVectorEmbeddingEmpty
	}

	return res, nil
}

// EmbedText векторизует текстовый запрос в то же пространство, что и изображения.
func (m *MLService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	const op = "MLService.EmbedText"

	reply := new(structpb.ListValue)
	if err := m.invoke(ctx, embedTextMethod, wrapperspb.String(text), reply); err != nil {
		return nil, e.Wrap(op, err)
	}

	vector := toVector(reply)
	if len(vector) == 0 {
		return nil, e.Wrap(op, e.ErrVectorEmbeddingEmpty)
	}

	return vector, nil
}

// invoke вызывает метод с таймаутом на попытку и повторами. Ошибки клиента (InvalidArgument и т.п.) не повторяются.
func (m *MLService) invoke(ctx context.Context, method string, req, reply any) error {
	attempt := 0
	return retry.Do(ctx, m.policy, func(ctx context.Context) error {
		attempt++

		callCtx, cancel := m.withTimeout(ctx)
		defer cancel()

		err := m.conn.Invoke(callCtx, method, req, reply)
		if err == nil {
			return nil
		}
		if !retryableCode(status.Code(err)) {
			return retry.Permanent(err)
		}

		m.logger.Warnf("ml-service %s failed (attempt %d): %v", method, attempt, err)
		return err
	})
}

func (m *MLService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

func retryableCode(code codes.Code) bool {
	switch code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal, codes.Unknown:
		return true
	default:
		return false
	}
}

// toGarmentTags приводит ответ классификатора к тегам. Неизвестная группа становится otherItems,
// нестроковые и пустые атрибуты отбрасываются.
func toGarmentTags(s *structpb.Struct) domain.GarmentTags {
	fields := s.GetFields()

	group, ok := domain.ParseCategoryGroup(fields[fieldCategoryGroup].GetStringValue())
	if !ok {
		group = domain.OtherItems
	}

	category := strings.TrimSpace(fields[fieldCategory].GetStringValue())
	if category == "" {
		category = domain.DefaultUnknown
	}

	attrs := make(map[string]string)
	for k, v := range fields[fieldAttributes].GetStructValue().GetFields() {
		if sv := strings.TrimSpace(v.GetStringValue()); sv != "" {
			attrs[k] = sv
		}
	}

	return domain.GarmentTags{
		CategoryGroup: group,
		Category:      category,
		Attributes:    attrs,
	}
}

func toVector(l *structpb.ListValue) []float32 {
	values := l.GetValues()
	if len(values) == 0 {
		return nil
	}

	vector := make([]float32, len(values))
	for i, v := range values {
		vector[i] = float32(v.GetNumberValue())
	}
	return vector
}
