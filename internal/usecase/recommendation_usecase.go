package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path"
	"strings"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

const maxAccessories = 3

// fallbackGroups используются, если советник не выбрал ни одной известной категории.
var fallbackGroups = []domain.CategoryGroup{domain.UpperWear, domain.BottomWear, domain.Footwear}

// RecommendationUseCase собирает образ под текстовый запрос пользователя.
type RecommendationUseCase struct {
	tagTreeRepo  TagTreeRepository
	catalog      *GarmentCatalog
	advisor      OutfitAdvisor
	composer     OutfitComposer
	imagesInfra  ImagesInfra
	logger       logger.Logger
	outfitFolder string
	pick         func(n int) int
}

func NewRecommendationUC(
	tagTreeRepo TagTreeRepository,
	catalog *GarmentCatalog,
	advisor OutfitAdvisor,
	composer OutfitComposer,
	imagesInfra ImagesInfra,
	logger logger.Logger,
	outfitFolder string,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		tagTreeRepo:  tagTreeRepo,
		catalog:      catalog,
		advisor:      advisor,
		composer:     composer,
		imagesInfra:  imagesInfra,
		logger:       logger,
		outfitFolder: outfitFolder,
		pick:         rand.IntN,
	}
}

// Recommend выбирает категории через советника и берёт случайную вещь из каждой.
func (r *RecommendationUseCase) Recommend(ctx context.Context, req *RecommendReq) (*RecommendRes, error) {
	const op = "RecommendationUseCase.Recommend"

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, e.Wrap(op, e.ErrEmptyPrompt)
	}

	tree, err := r.tagTreeRepo.Get(ctx, req.OwnerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if tree.IsEmpty() {
		return nil, e.Wrap(op, e.ErrEmptyWardrobe)
	}

	advice, err := r.advisor.SelectCategories(ctx, NewAdviceReq(prompt, tree.Categories()))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, e.Wrap(op, err)
		}
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err))
	}

	selected, ids := r.selectItems(tree, advice.Categories)
	if len(ids) == 0 {
		r.logger.Warnf("Advisor selected no known categories for owner %s: %v", req.OwnerID, advice.Categories)
		selected, ids = r.selectItems(tree, r.fallbackCategories(tree))
	}

	found, err := r.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]*domain.Garment, 0, len(ids))
	for _, id := range ids {
		g, ok := found[id]
		if !ok || !g.OwnedBy(req.OwnerID) {
			r.logger.Warnf("Tag tree of owner %s references missing item %s", req.OwnerID, id)
			continue
		}
		items = append(items, g)
	}

	compositeURL, err := composeAndUpload(ctx, r.composer, r.imagesInfra, path.Join(r.outfitFolder, req.OwnerID), items)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &RecommendRes{
		Reasoning:          advice.Reasoning,
		SelectedCategories: selected,
		Items:              items,
		CompositeImageURL:  compositeURL,
	}, nil
}

// selectItems берёт по одной случайной вещи из каждой выбранной категории.
// На группу приходится одна вещь, аксессуаров до трёх. Неизвестные категории отбрасываются.
func (r *RecommendationUseCase) selectItems(tree *domain.TagTree, categories []string) ([]string, []string) {
	perGroup := make(map[domain.CategoryGroup]int)
	selected := make([]string, 0, len(categories))
	ids := make([]string, 0, len(categories))

	for _, category := range categories {
		group, ok := tree.FindCategory(category)
		if !ok {
			continue
		}

		limit := 1
		if group == domain.Accessories {
			limit = maxAccessories
		}
		if perGroup[group] >= limit {
			continue
		}

		candidates := tree.ItemIDs(group, category)
		if len(candidates) == 0 {
			continue
		}

		perGroup[group]++
		selected = append(selected, category)
		ids = append(ids, candidates[r.pick(len(candidates))])
	}

	return selected, ids
}

// fallbackCategories выбирает случайную категорию в каждой базовой группе.
func (r *RecommendationUseCase) fallbackCategories(tree *domain.TagTree) []string {
	available := tree.Categories()

	res := make([]string, 0, len(fallbackGroups))
	for _, group := range fallbackGroups {
		names := available[group]
		if len(names) == 0 {
			continue
		}
		res = append(res, names[r.pick(len(names))])
	}
	return res
}
