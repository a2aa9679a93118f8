package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
)

type recommendationFixture struct {
	repo     *fakeGarmentRepo
	trees    *fakeTagTreeRepo
	advisor  *MockAdvisor
	composer *MockComposer
	images   *MockImagesInfra
	uc       *RecommendationUseCase
}

func newRecommendationFixture(t *testing.T) *recommendationFixture {
	t.Helper()

	f := &recommendationFixture{
		repo:     newFakeGarmentRepo(),
		trees:    newFakeTagTreeRepo(),
		advisor:  &MockAdvisor{},
		composer: &MockComposer{},
		images:   &MockImagesInfra{},
	}

	log := testLogger()
	f.uc = NewRecommendationUC(f.trees, NewGarmentCatalog(f.repo, nopCache{}, log), f.advisor, f.composer, f.images, log, "outfit_recommendations")
	f.uc.pick = func(int) int { return 0 }

	return f
}

func (f *recommendationFixture) own(t *testing.T, items ...*domain.Garment) {
	t.Helper()

	tree, _ := f.trees.Get(context.Background(), items[0].OwnerID)
	for _, g := range items {
		require.NoError(t, f.repo.Create(context.Background(), g))
		tree.Add(g.CategoryGroup, g.Category, g.ID)
	}
	require.NoError(t, f.trees.Save(context.Background(), items[0].OwnerID, tree))
}

func TestRecommend_PicksItemPerSelectedCategory(t *testing.T) {
	f := newRecommendationFixture(t)
	f.own(t,
		garment("tee", "u1", domain.UpperWear, "T-Shirt"),
		garment("shirt", "u1", domain.UpperWear, "Shirt"),
		garment("jeans", "u1", domain.BottomWear, "Jeans"),
		garment("bag", "u1", domain.Accessories, "Bag"),
		garment("hat", "u1", domain.Accessories, "Hat"),
	)

	f.advisor.On("SelectCategories", mock.Anything, mock.MatchedBy(func(req *AdviceReq) bool {
		return req.Prompt == "beach day" && len(req.Available[domain.UpperWear]) == 2
	})).Return(&AdviceRes{
		Categories: []string{"T-Shirt", "Shirt", "Jeans", "Bag", "Hat", "Tuxedo"},
		Reasoning:  "light and relaxed",
	}, nil)
	f.composer.On("ComposeOutfit", mock.Anything, mock.Anything).Return([]byte{1}, nil)
	f.images.On("UploadImage", mock.Anything, mock.Anything).Return(&UploadedImage{URL: "http://x/rec.jpg"}, nil)

	res, err := f.uc.Recommend(context.Background(), NewRecommendReq("u1", " beach day "))
	require.NoError(t, err)

	// Вторая вещь из upperWear и неизвестная категория отбрасываются
	assert.Equal(t, []string{"T-Shirt", "Jeans", "Bag", "Hat"}, res.SelectedCategories)
	ids := make([]string, len(res.Items))
	for i, g := range res.Items {
		ids[i] = g.ID
	}
	assert.Equal(t, []string{"tee", "jeans", "bag", "hat"}, ids)
	assert.Equal(t, "light and relaxed", res.Reasoning)
	assert.Equal(t, "http://x/rec.jpg", res.CompositeImageURL)
}

func TestRecommend_FallsBackWhenAdvisorPicksNothingKnown(t *testing.T) {
	f := newRecommendationFixture(t)
	f.own(t,
		garment("tee", "u1", domain.UpperWear, "T-Shirt"),
		garment("boots", "u1", domain.Footwear, "Boots"),
	)

	f.advisor.On("SelectCategories", mock.Anything, mock.Anything).Return(&AdviceRes{Categories: []string{"Kimono"}}, nil)
	f.composer.On("ComposeOutfit", mock.Anything, mock.Anything).Return([]byte{1}, nil)
	f.images.On("UploadImage", mock.Anything, mock.Anything).Return(&UploadedImage{URL: "http://x/rec.jpg"}, nil)

	res, err := f.uc.Recommend(context.Background(), NewRecommendReq("u1", "anything"))
	require.NoError(t, err)
	assert.Equal(t, []string{"T-Shirt", "Boots"}, res.SelectedCategories)
}

func TestRecommend_EmptyWardrobe(t *testing.T) {
	f := newRecommendationFixture(t)

	_, err := f.uc.Recommend(context.Background(), NewRecommendReq("u1", "office"))
	assert.ErrorIs(t, err, e.ErrEmptyWardrobe)

	_, err = f.uc.Recommend(context.Background(), NewRecommendReq("u1", ""))
	assert.ErrorIs(t, err, e.ErrEmptyPrompt)

	f.advisor.AssertNotCalled(t, "SelectCategories", mock.Anything, mock.Anything)
}
