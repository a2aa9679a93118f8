package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/retry"
)

// maxMatchFetch ограничивает дозапросы к индексу, когда часть попаданий не гидрируется.
const maxMatchFetch = 64

// SimilarityMatcher ищет ближайшие по косинусу вещи того же владельца в заданной группе.
// Ничего не пишет.
type SimilarityMatcher struct {
	index   VectorIndex
	catalog *GarmentCatalog
	logger  logger.Logger
	timeout time.Duration
	policy  retry.Policy
}

func NewSimilarityMatcher(
	index VectorIndex,
	catalog *GarmentCatalog,
	timeout time.Duration,
	policy retry.Policy,
	logger logger.Logger,
) *SimilarityMatcher {
	return &SimilarityMatcher{
		index:   index,
		catalog: catalog,
		logger:  logger,
		timeout: timeout,
		policy:  policy,
	}
}

// FindBestMatch возвращает лучшую вещь группы или nil, если в группе ничего нет.
func (m *SimilarityMatcher) FindBestMatch(
	ctx context.Context,
	ownerID string,
	vector []float32,
	group domain.CategoryGroup,
	excludeID string,
) (*domain.MatchedItem, error) {
	matches, err := m.FindMatches(ctx, &MatchQuery{
		OwnerID:       ownerID,
		Vector:        vector,
		CategoryGroup: group,
		ExcludeID:     excludeID,
		Limit:         1,
	})
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, nil
	}

	return &matches[0], nil
}

// FindMatches возвращает до Limit вещей по убыванию близости, при равенстве - по возрастанию id.
// ExcludeID никогда не попадает в результат.
func (m *SimilarityMatcher) FindMatches(ctx context.Context, q *MatchQuery) ([]domain.MatchedItem, error) {
	const op = "SimilarityMatcher.FindMatches"

	if q.OwnerID == "" || len(q.Vector) == 0 || q.Limit < 1 {
		return nil, e.Wrap(op, e.ErrStatusBadRequest)
	}

	// Исключаемая вещь сама себе ближайший сосед, поэтому берём на одну больше
	fetch := q.Limit
	if q.ExcludeID != "" {
		fetch++
	}

	filter := m.buildFilter(q)
	for {
		hits, err := m.query(ctx, filter, q.Vector, fetch)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		res, err := m.hydrate(ctx, q, rankHits(hits, q.ExcludeID))
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Векторы без строки в БД отбрасываются, добираем следующими по рангу
		if len(res) == q.Limit || len(hits) < fetch || fetch >= maxMatchFetch {
			return res, nil
		}
		fetch = min(fetch*2, maxMatchFetch)
	}
}

// hydrate подтягивает вещи для попаданий и оставляет не больше Limit принадлежащих владельцу.
func (m *SimilarityMatcher) hydrate(ctx context.Context, q *MatchQuery, hits []domain.VectorMatch) ([]domain.MatchedItem, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}

	garments, err := m.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]domain.MatchedItem, 0, q.Limit)
	for _, h := range hits {
		g, ok := garments[h.ID]
		if !ok || !g.OwnedBy(q.OwnerID) {
			m.logger.Warnf("SimilarityMatcher: vector %s has no garment row for owner %s, skipping", h.ID, q.OwnerID)
			continue
		}

		res = append(res, domain.NewMatchedItem(g, h.Score))
		if len(res) == q.Limit {
			break
		}
	}

	return res, nil
}

func (m *SimilarityMatcher) buildFilter(q *MatchQuery) domain.VectorFilter {
	return domain.VectorFilter{
		OwnerID:       q.OwnerID,
		CategoryGroup: q.CategoryGroup,
		Category:      q.Category,
		Color:         q.Color,
		Occasion:      q.Occasion,
		Season:        q.Season,
	}
}

// query выполняет запрос к индексу с таймаутом на попытку и ограниченным повтором.
func (m *SimilarityMatcher) query(ctx context.Context, filter domain.VectorFilter, vector []float32, limit int) ([]domain.VectorMatch, error) {
	var hits []domain.VectorMatch
	err := retry.Do(ctx, m.policy, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		var err error
		hits, err = m.index.Query(callCtx, filter, vector, limit)
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err)
	}

	return hits, nil
}

// rankHits убирает исключённый id и упорядочивает детерминированно.
func rankHits(hits []domain.VectorMatch, excludeID string) []domain.VectorMatch {
	res := make([]domain.VectorMatch, 0, len(hits))
	for _, h := range hits {
		if excludeID != "" && h.ID == excludeID {
			continue
		}
		res = append(res, h)
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].ID < res[j].ID
	})

	return res
}
