package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/retry"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimitPerGroup = 1
	MaxLimitPerGroup     = 10

	compositeContentType = "image/jpeg"
)

// Статусы запроса подбора для метрик.
const (
	StatusOK               = "ok"
	StatusNotFound         = "not_found"
	StatusMissingEmbedding = "missing_embedding"
	StatusUpstreamError    = "upstream_error"
	StatusBadRequest       = "bad_request"
	StatusCanceled         = "canceled"
	StatusError            = "error"
)

// StylingUseCase собирает образ вокруг исходной вещи.
type StylingUseCase struct {
	catalog       *GarmentCatalog
	index         VectorIndex
	matcher       *SimilarityMatcher
	composer      OutfitComposer
	imagesInfra   ImagesInfra
	metrics       StylingMetrics
	logger        logger.Logger
	outfitFolder  string
	vectorTimeout time.Duration
	policy        retry.Policy
}

func NewStylingUC(
	catalog *GarmentCatalog,
	index VectorIndex,
	matcher *SimilarityMatcher,
	composer OutfitComposer,
	imagesInfra ImagesInfra,
	metrics StylingMetrics,
	logger logger.Logger,
	outfitFolder string,
	vectorTimeout time.Duration,
	policy retry.Policy,
) *StylingUseCase {
	return &StylingUseCase{
		catalog:       catalog,
		index:         index,
		matcher:       matcher,
		composer:      composer,
		imagesInfra:   imagesInfra,
		metrics:       metrics,
		logger:        logger,
		outfitFolder:  outfitFolder,
		vectorTimeout: vectorTimeout,
		policy:        policy,
	}
}

// StyleOutfit подбирает по одной вещи в каждую группу-дополнение и рендерит коллаж.
// Исходная вещь всегда первая в результате, пустые группы пропускаются.
func (s *StylingUseCase) StyleOutfit(ctx context.Context, req *StyleOutfitReq) (res *StyledOutfitRes, err error) {
	const op = "StylingUseCase.StyleOutfit"

	start := time.Now()
	defer func() {
		s.metrics.ObserveStyleOutfit(StylingStatus(err), time.Since(start))
	}()

	source, vector, err := s.resolveSource(ctx, req.OwnerID, req.ItemID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := []domain.MatchedItem{domain.NewSourceItem(source)}

	matches, err := s.matchComplements(ctx, source, vector)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	items = append(items, matches...)

	compositeURL, err := s.renderOutfit(ctx, req.OwnerID, items)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Debugf("Outfit styled: item=%s, matched=%d", source.ID, len(items)-1)

	return NewStyledOutfitRes(source, compositeURL, items), nil
}

// StyleOutfitWithOptions возвращает несколько кандидатов на каждую группу без рендера коллажа.
// В MatchesByGroup попадают только непустые группы.
func (s *StylingUseCase) StyleOutfitWithOptions(ctx context.Context, req *StyleOptionsReq) (*StyleOptionsRes, error) {
	const op = "StylingUseCase.StyleOutfitWithOptions"

	for _, g := range req.IncludeGroups {
		if !g.Valid() {
			return nil, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrInvalidCategoryGroup, g))
		}
	}

	source, vector, err := s.resolveSource(ctx, req.OwnerID, req.ItemID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	groups := dedupeGroups(req.IncludeGroups)
	if len(groups) == 0 {
		groups = domain.ComplementsOf(source.CategoryGroup)
	}
	limit := clampLimit(req.LimitPerGroup)

	slots := make([][]domain.MatchedItem, len(groups))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, group := range groups {
		eg.Go(func() error {
			matches, err := s.matcher.FindMatches(egCtx, &MatchQuery{
				OwnerID:       req.OwnerID,
				Vector:        vector,
				CategoryGroup: group,
				ExcludeID:     source.ID,
				Limit:         limit,
			})
			if err != nil {
				return err
			}
			slots[i] = matches
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, e.Wrap(op, err)
	}

	byGroup := make(map[domain.CategoryGroup][]domain.MatchedItem, len(groups))
	for i, group := range groups {
		if len(slots[i]) == 0 {
			s.metrics.IncEmptySlot(group)
			continue
		}
		byGroup[group] = slots[i]
	}

	return &StyleOptionsRes{
		SourceItem:     source,
		Groups:         groups,
		MatchesByGroup: byGroup,
	}, nil
}

// resolveSource находит исходную вещь владельца и её вектор.
// Чужая вещь неотличима от отсутствующей.
func (s *StylingUseCase) resolveSource(ctx context.Context, ownerID, itemID string) (*domain.Garment, []float32, error) {
	if ownerID == "" || itemID == "" {
		return nil, nil, e.ErrGarmentNotFound
	}

	source, err := s.catalog.GetFresh(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}

	if !source.OwnedBy(ownerID) {
		s.logger.Warnf("Item %s requested by non-owner %s", itemID, ownerID)
		return nil, nil, e.ErrGarmentNotFound
	}

	vector, err := s.retrieveVector(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}

	return source, vector, nil
}

func (s *StylingUseCase) retrieveVector(ctx context.Context, itemID string) ([]float32, error) {
	var embedding *domain.Embedding
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.vectorTimeout)
		defer cancel()

		var err error
		embedding, err = s.index.Retrieve(callCtx, itemID)
		if errors.Is(err, e.ErrEmbeddingNotFound) {
			return retry.Permanent(err)
		}
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, e.ErrEmbeddingNotFound):
		return nil, e.ErrMissingEmbedding
	case errors.Is(err, context.Canceled):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err)
	}

	if embedding == nil || len(embedding.Vector) == 0 {
		return nil, e.ErrMissingEmbedding
	}

	return embedding.Vector, nil
}

// matchComplements ищет лучшую вещь в каждой группе-дополнении параллельно.
// Порядок результата совпадает с порядком групп, а не с порядком ответов.
func (s *StylingUseCase) matchComplements(ctx context.Context, source *domain.Garment, vector []float32) ([]domain.MatchedItem, error) {
	groups := domain.ComplementsOf(source.CategoryGroup)
	slots := make([]*domain.MatchedItem, len(groups))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, group := range groups {
		eg.Go(func() error {
			match, err := s.matcher.FindBestMatch(egCtx, source.OwnerID, vector, group, source.ID)
			if err != nil {
				return err
			}
			slots[i] = match
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := make([]domain.MatchedItem, 0, len(groups))
	for i, match := range slots {
		if match == nil {
			s.metrics.IncEmptySlot(groups[i])
			continue
		}
		res = append(res, *match)
	}

	return res, nil
}

// renderOutfit рендерит коллаж и загружает его в хранилище.
func (s *StylingUseCase) renderOutfit(ctx context.Context, ownerID string, items []domain.MatchedItem) (string, error) {
	garments := make([]*domain.Garment, 0, len(items))
	for _, item := range items {
		garments = append(garments, item.Garment)
	}

	return composeAndUpload(ctx, s.composer, s.imagesInfra, path.Join(s.outfitFolder, ownerID), garments)
}

// composeAndUpload общий для подбора и рекомендаций шаг: рендер и единственная запись в хранилище.
func composeAndUpload(
	ctx context.Context,
	composer OutfitComposer,
	imagesInfra ImagesInfra,
	folder string,
	garments []*domain.Garment,
) (string, error) {
	data, err := composer.ComposeOutfit(ctx, toComposeItems(garments))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}

	uploaded, err := imagesInfra.UploadImage(ctx, NewUploadImageReq(folder, data, compositeContentType))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err)
	}

	return uploaded.URL, nil
}

// StylingStatus сводит ошибку подбора к метке статуса.
func StylingStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, e.ErrGarmentNotFound):
		return StatusNotFound
	case errors.Is(err, e.ErrMissingEmbedding):
		return StatusMissingEmbedding
	case errors.Is(err, e.ErrUpstreamUnavailable):
		return StatusUpstreamError
	case errors.Is(err, e.ErrInvalidCategoryGroup), errors.Is(err, e.ErrStatusBadRequest):
		return StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimitPerGroup
	case limit > MaxLimitPerGroup:
		return MaxLimitPerGroup
	default:
		return limit
	}
}

func dedupeGroups(groups []domain.CategoryGroup) []domain.CategoryGroup {
	seen := make(map[domain.CategoryGroup]struct{}, len(groups))
	res := make([]domain.CategoryGroup, 0, len(groups))
	for _, g := range groups {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		res = append(res, g)
	}
	return res
}
