// Package memory содержит векторный индекс в памяти процесса для локального запуска и тестов.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"gonum.org/v1/gonum/floats"
)

type point struct {
	vector  []float64
	norm    float64
	payload domain.Payload
}

// VectorIndex - полный перебор с косинусной близостью. Upsert по одному id работает как last-write-wins.
type VectorIndex struct {
	mu         sync.RWMutex
	points     map[string]point
	vectorSize int
}

// NewVectorIndex создаёт индекс. vectorSize <= 0 отключает проверку размерности.
func NewVectorIndex(vectorSize int) *VectorIndex {
	return &VectorIndex{
		points:     make(map[string]point),
		vectorSize: vectorSize,
	}
}

func (v *VectorIndex) Upsert(ctx context.Context, embeddings []domain.Embedding) error {
	const op = "memory.VectorIndex.Upsert"

	if len(embeddings) == 0 {
		return e.Wrap(op, e.ErrEmptyVectors)
	}

	prepared := make(map[string]point, len(embeddings))
	for _, emb := range embeddings {
		if len(emb.Vector) == 0 {
			return e.Wrap(op, e.ErrVectorEmbeddingEmpty)
		}
		if v.vectorSize > 0 && len(emb.Vector) != v.vectorSize {
			return e.Wrap(op, e.ErrVectorDimension)
		}

		vec := toFloat64(emb.Vector)
		payload := make(domain.Payload, len(emb.Payload))
		for k, val := range emb.Payload {
			payload[k] = val
		}
		prepared[emb.ID] = point{vector: vec, norm: floats.Norm(vec, 2), payload: payload}
	}

	if err := ctx.Err(); err != nil {
		return e.Wrap(op, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for id, p := range prepared {
		v.points[id] = p
	}
	return nil
}

func (v *VectorIndex) Retrieve(ctx context.Context, id string) (*domain.Embedding, error) {
	const op = "memory.VectorIndex.Retrieve"

	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(op, err)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	p, ok := v.points[id]
	if !ok {
		return nil, e.Wrap(op, e.ErrEmbeddingNotFound)
	}

	payload := make(domain.Payload, len(p.payload))
	for k, val := range p.payload {
		payload[k] = val
	}

	return domain.NewEmbedding(id, toFloat32(p.vector), payload), nil
}

// Query возвращает до limit точек, прошедших фильтр, по убыванию косинусной близости.
func (v *VectorIndex) Query(ctx context.Context, filter domain.VectorFilter, vector []float32, limit int) ([]domain.VectorMatch, error) {
	const op = "memory.VectorIndex.Query"

	if len(vector) == 0 {
		return nil, e.Wrap(op, e.ErrVectorEmbeddingEmpty)
	}
	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(op, err)
	}

	query := toFloat64(vector)
	queryNorm := floats.Norm(query, 2)

	v.mu.RLock()
	matches := make([]domain.VectorMatch, 0, len(v.points))
	for id, p := range v.points {
		if len(p.vector) != len(query) || !filter.Matches(p.payload) {
			continue
		}
		matches = append(matches, domain.VectorMatch{
			ID:      id,
			Score:   cosine(query, queryNorm, p),
			Payload: p.payload,
		})
	}
	v.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

func (v *VectorIndex) Delete(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap("memory.VectorIndex.Delete", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for _, id := range ids {
		delete(v.points, id)
	}
	return nil
}

// Len возвращает число точек в индексе.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.points)
}

func cosine(query []float64, queryNorm float64, p point) float32 {
	if queryNorm == 0 || p.norm == 0 {
		return 0
	}
	return float32(floats.Dot(query, p.vector) / (queryNorm * p.norm))
}

func toFloat64(v []float32) []float64 {
	res := make([]float64, len(v))
	for i, x := range v {
		res[i] = float64(x)
	}
	return res
}

func toFloat32(v []float64) []float32 {
	res := make([]float32, len(v))
	for i, x := range v {
		res[i] = float32(x)
	}
	return res
}
