package ml_service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
)

const mockModelVersion = "mock-1"

// MockEncoder - детерминированный энкодер для локального запуска без ML-сервиса.
// Одинаковые байты дают одинаковый единичный вектор и одинаковые теги из словаря.
type MockEncoder struct {
	dim int
}

func NewMockEncoder(dim uint64) *MockEncoder {
	return &MockEncoder{dim: int(dim)}
}

func (m *MockEncoder) AnalyzeImages(ctx context.Context, req *usecase.AnalyzeImagesReq) ([]usecase.AnalyzeImageRes, error) {
	results := make([]usecase.AnalyzeImageRes, 0, len(req.Images))
	for _, image := range req.Images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rng := seeded(image.Data)
		results = append(results, usecase.AnalyzeImageRes{
			Tags:         randomTags(rng),
			Vector:       unitVector(rng, m.dim),
			ModelVersion: mockModelVersion,
		})
	}
	return results, nil
}

func (m *MockEncoder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return unitVector(seeded([]byte(text)), m.dim), nil
}

func seeded(data []byte) *rand.Rand {
	sum := sha256.Sum256(data)
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(sum[:8]), binary.LittleEndian.Uint64(sum[8:16])))
}

func unitVector(rng *rand.Rand, dim int) []float32 {
	raw := make([]float64, dim)
	var norm float64
	for i := range raw {
		raw[i] = rng.NormFloat64()
		norm += raw[i] * raw[i]
	}
	norm = math.Sqrt(norm)

	vector := make([]float32, dim)
	for i, v := range raw {
		vector[i] = float32(v / norm)
	}
	return vector
}

func randomTags(rng *rand.Rand) domain.GarmentTags {
	groups := domain.AllCategoryGroups()
	group := groups[rng.IntN(len(groups))]
	categories := domain.CategoriesOf(group)

	vocab := domain.AttributeVocabulary(group)
	keys := make([]string, 0, len(vocab))
	for k := range vocab {
		keys = append(keys, k)
	}
	// порядок обхода map случаен, а теги должны зависеть только от seed
	sort.Strings(keys)

	attrs := make(map[string]string, len(keys))
	for _, k := range keys {
		values := vocab[k]
		attrs[k] = values[rng.IntN(len(values))]
	}

	return domain.GarmentTags{
		CategoryGroup: group,
		Category:      categories[rng.IntN(len(categories))],
		Attributes:    attrs,
	}
}
