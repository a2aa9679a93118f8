package qdrant

import (
	"context"

	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
)

// EmbeddingRepo репозиторий для работы с embedding-векторами вещей в Qdrant
type EmbeddingRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewEmbeddingRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *EmbeddingRepo {
	return &EmbeddingRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет embedding-векторы в коллекции Qdrant.
func (q *EmbeddingRepo) Upsert(ctx context.Context, vectors []domain.Embedding) error {
	if len(vectors) == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrEmptyVectors)
	}

	reqVectors := make([]*qdrant.PointStruct, 0, len(vectors))
	for _, vector := range vectors {
		if uint64(len(vector.Vector)) != q.cfg.VectorSize {
			return e.Wrap(whereami.WhereAmI(), e.ErrVectorDimension)
		}

		reqVectors = append(reqVectors, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(vector.ID),
			Vectors: qdrant.NewVectors(vector.Vector...),
			Payload: qdrant.NewValueMap(vector.Payload),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         reqVectors,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Retrieve возвращает вектор и payload точки. Отсутствующая точка - e.ErrEmbeddingNotFound.
func (q *EmbeddingRepo) Retrieve(ctx context.Context, id string) (*domain.Embedding, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(points) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrEmbeddingNotFound)
	}

	vector := denseVector(points[0].GetVectors())
	if len(vector) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrEmbeddingNotFound)
	}

	return domain.NewEmbedding(id, vector, toPayload(points[0].GetPayload())), nil
}

// Query ищет ближайшие точки под фильтром точного совпадения.
func (q *EmbeddingRepo) Query(ctx context.Context, filter domain.VectorFilter, vector []float32, limit int) ([]domain.VectorMatch, error) {
	if len(vector) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrVectorEmbeddingEmpty)
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         buildFilter(filter),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	matches := make([]domain.VectorMatch, 0, len(points))
	for _, pt := range points {
		id := pt.GetId().GetUuid()
		if id == "" {
			continue
		}
		matches = append(matches, domain.VectorMatch{
			ID:      id,
			Score:   pt.GetScore(),
			Payload: toPayload(pt.GetPayload()),
		})
	}

	return matches, nil
}

// Delete удаляет точки по id.
func (q *EmbeddingRepo) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, qdrant.NewIDUUID(id))
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// buildFilter переводит фильтр в конъюнкцию keyword-условий. Пустой фильтр - nil.
func buildFilter(f domain.VectorFilter) *qdrant.Filter {
	conditions := f.Conditions()
	if len(conditions) == 0 {
		return nil
	}

	must := make([]*qdrant.Condition, 0, len(conditions))
	for _, c := range conditions {
		must = append(must, qdrant.NewMatch(c.Field, c.Value))
	}

	return &qdrant.Filter{Must: must}
}

func denseVector(v *qdrant.VectorsOutput) []float32 {
	vec := v.GetVector()
	if vec == nil {
		return nil
	}
	if dense := vec.GetDense(); dense != nil {
		return dense.GetData()
	}
	return vec.GetData()
}

// toPayload оставляет строковые и числовые значения payload.
func toPayload(raw map[string]*qdrant.Value) domain.Payload {
	p := make(domain.Payload, len(raw))
	for k, v := range raw {
		switch kind := v.GetKind().(type) {
		case *qdrant.Value_StringValue:
			p[k] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			p[k] = kind.IntegerValue
		case *qdrant.Value_DoubleValue:
			p[k] = kind.DoubleValue
		case *qdrant.Value_BoolValue:
			p[k] = kind.BoolValue
		}
	}
	return p
}
