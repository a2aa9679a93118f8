package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/repository/memory"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
)

func newTestMatcher(t *testing.T, repo *fakeGarmentRepo, index VectorIndex) *SimilarityMatcher {
	t.Helper()
	log := testLogger()
	return NewSimilarityMatcher(index, NewGarmentCatalog(repo, nopCache{}, log), time.Second, testPolicy, log)
}

func seed(t *testing.T, repo *fakeGarmentRepo, index *memory.VectorIndex, g *domain.Garment, vector []float32) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), g))
	require.NoError(t, index.Upsert(context.Background(), []domain.Embedding{
		*domain.NewEmbedding(g.ID, vector, domain.NewGarmentPayload(g)),
	}))
}

func TestFindBestMatch_NeverReturnsExcludedID(t *testing.T) {
	repo := newFakeGarmentRepo()
	index := memory.NewVectorIndex(2)
	seed(t, repo, index, garment("src", "u1", domain.BottomWear, "Jeans"), []float32{1, 0})
	seed(t, repo, index, garment("other", "u1", domain.BottomWear, "Shorts"), []float32{0, 1})
	m := newTestMatcher(t, repo, index)

	// Исходная вещь - точный ближайший сосед самой себя
	got, err := m.FindBestMatch(context.Background(), "u1", []float32{1, 0}, domain.BottomWear, "src")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "other", got.Garment.ID)
	assert.False(t, got.IsSource)
}

func TestFindBestMatch_EmptyGroupIsNotAnError(t *testing.T) {
	repo := newFakeGarmentRepo()
	index := memory.NewVectorIndex(2)
	seed(t, repo, index, garment("src", "u1", domain.UpperWear, "Shirt"), []float32{1, 0})
	m := newTestMatcher(t, repo, index)

	got, err := m.FindBestMatch(context.Background(), "u1", []float32{1, 0}, domain.Footwear, "src")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindMatches_OverFetchKeepsLimitAfterExclusion(t *testing.T) {
	repo := newFakeGarmentRepo()
	index := memory.NewVectorIndex(2)
	seed(t, repo, index, garment("src", "u1", domain.UpperWear, "Shirt"), []float32{1, 0})
	seed(t, repo, index, garment("a", "u1", domain.UpperWear, "Shirt"), []float32{1, 0.1})
	seed(t, repo, index, garment("b", "u1", domain.UpperWear, "Shirt"), []float32{1, 0.5})
	seed(t, repo, index, garment("c", "u1", domain.UpperWear, "Shirt"), []float32{0, 1})
	m := newTestMatcher(t, repo, index)

	got, err := m.FindMatches(context.Background(), &MatchQuery{
		OwnerID:       "u1",
		Vector:        []float32{1, 0},
		CategoryGroup: domain.UpperWear,
		ExcludeID:     "src",
		Limit:         2,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Garment.ID)
	assert.Equal(t, "b", got[1].Garment.ID)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
}

func TestFindMatches_SkipsOrphanVectors(t *testing.T) {
	repo := newFakeGarmentRepo()
	index := memory.NewVectorIndex(2)
	seed(t, repo, index, garment("kept", "u1", domain.Footwear, "Boots"), []float32{0.9, 0.1})

	orphan := garment("orphan", "u1", domain.Footwear, "Boots")
	require.NoError(t, index.Upsert(context.Background(), []domain.Embedding{
		*domain.NewEmbedding(orphan.ID, []float32{1, 0}, domain.NewGarmentPayload(orphan)),
	}))
	m := newTestMatcher(t, repo, index)

	got, err := m.FindBestMatch(context.Background(), "u1", []float32{1, 0}, domain.Footwear, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "kept", got.Garment.ID)
}

func TestFindMatches_RefillsPastSeveralOrphans(t *testing.T) {
	repo := newFakeGarmentRepo()
	index := memory.NewVectorIndex(2)
	seed(t, repo, index, garment("src", "u1", domain.UpperWear, "Shirt"), []float32{1, 0})
	for _, id := range []string{"o1", "o2", "o3"} {
		orphan := garment(id, "u1", domain.UpperWear, "Shirt")
		require.NoError(t, index.Upsert(context.Background(), []domain.Embedding{
			*domain.NewEmbedding(orphan.ID, []float32{1, 0.01}, domain.NewGarmentPayload(orphan)),
		}))
	}
	seed(t, repo, index, garment("a", "u1", domain.UpperWear, "Shirt"), []float32{1, 0.5})
	seed(t, repo, index, garment("b", "u1", domain.UpperWear, "Shirt"), []float32{0, 1})
	counting := &countingIndex{VectorIndex: index}
	m := newTestMatcher(t, repo, counting)

	got, err := m.FindMatches(context.Background(), &MatchQuery{
		OwnerID:       "u1",
		Vector:        []float32{1, 0},
		CategoryGroup: domain.UpperWear,
		ExcludeID:     "src",
		Limit:         2,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Garment.ID)
	assert.Equal(t, "b", got[1].Garment.ID)
	assert.Greater(t, counting.calls, 1)
}

func TestFindMatches_OnlyOrphansStopsWhenIndexIsExhausted(t *testing.T) {
	index := memory.NewVectorIndex(2)
	for _, id := range []string{"o1", "o2"} {
		orphan := garment(id, "u1", domain.Footwear, "Boots")
		require.NoError(t, index.Upsert(context.Background(), []domain.Embedding{
			*domain.NewEmbedding(orphan.ID, []float32{1, 0}, domain.NewGarmentPayload(orphan)),
		}))
	}
	counting := &countingIndex{VectorIndex: index}
	m := newTestMatcher(t, newFakeGarmentRepo(), counting)

	got, err := m.FindBestMatch(context.Background(), "u1", []float32{1, 0}, domain.Footwear, "")
	require.NoError(t, err)
	assert.Nil(t, got)
	// 1, 2, 4: на третьем запросе индекс вернул меньше, чем просили
	assert.Equal(t, 3, counting.calls)
}

func TestFindMatches_SecondaryFilters(t *testing.T) {
	repo := newFakeGarmentRepo()
	index := memory.NewVectorIndex(2)

	black := garment("black", "u1", domain.Footwear, "Boots")
	black.Attributes[domain.AttrColor] = "Black"
	white := garment("white", "u1", domain.Footwear, "Sneakers")
	white.Attributes[domain.AttrColor] = "White"
	seed(t, repo, index, black, []float32{0, 1})
	seed(t, repo, index, white, []float32{1, 0})
	m := newTestMatcher(t, repo, index)

	got, err := m.FindMatches(context.Background(), &MatchQuery{
		OwnerID: "u1",
		Vector:  []float32{1, 0},
		Color:   "Black",
		Limit:   5,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "black", got[0].Garment.ID)
}

func TestFindMatches_IndexFailureIsUpstream(t *testing.T) {
	m := newTestMatcher(t, newFakeGarmentRepo(), failingIndex{err: errors.New("qdrant: unavailable")})

	_, err := m.FindBestMatch(context.Background(), "u1", []float32{1, 0}, domain.UpperWear, "")
	assert.ErrorIs(t, err, e.ErrUpstreamUnavailable)
}

func TestFindMatches_RejectsInvalidQuery(t *testing.T) {
	m := newTestMatcher(t, newFakeGarmentRepo(), memory.NewVectorIndex(2))

	_, err := m.FindMatches(context.Background(), &MatchQuery{OwnerID: "u1", Vector: []float32{1}, Limit: 0})
	assert.ErrorIs(t, err, e.ErrStatusBadRequest)
}

func TestRankHits(t *testing.T) {
	hits := []domain.VectorMatch{
		{ID: "b", Score: 0.5},
		{ID: "src", Score: 1},
		{ID: "a", Score: 0.5},
		{ID: "c", Score: 0.9},
	}

	got := rankHits(hits, "src")

	ids := make([]string, len(got))
	for i, h := range got {
		ids[i] = h.ID
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
