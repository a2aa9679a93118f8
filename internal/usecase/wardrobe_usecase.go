package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

const (
	DefaultSearchLimit = 10
	// MaxUploadImages - предел фотографий в одной загрузке.
	MaxUploadImages = 10
)

// WardrobeUseCase управляет вещами пользователя: загрузка, список, удаление, поиск.
type WardrobeUseCase struct {
	garmentRepo    GarmentRepository
	tagTreeRepo    TagTreeRepository
	outboxRepo     OutboxRepository
	index          VectorIndex
	transactor     Transactor
	encoder        EncoderInfra
	imagesInfra    ImagesInfra
	catalog        *GarmentCatalog
	matcher        *SimilarityMatcher
	logger         logger.Logger
	wardrobeFolder string
	maxImages      int
}

func NewWardrobeUC(
	garmentRepo GarmentRepository,
	tagTreeRepo TagTreeRepository,
	outboxRepo OutboxRepository,
	index VectorIndex,
	transactor Transactor,
	encoder EncoderInfra,
	imagesInfra ImagesInfra,
	catalog *GarmentCatalog,
	matcher *SimilarityMatcher,
	logger logger.Logger,
	wardrobeFolder string,
	maxImages int,
) *WardrobeUseCase {
	return &WardrobeUseCase{
		garmentRepo:    garmentRepo,
		tagTreeRepo:    tagTreeRepo,
		outboxRepo:     outboxRepo,
		index:          index,
		transactor:     transactor,
		encoder:        encoder,
		imagesInfra:    imagesInfra,
		catalog:        catalog,
		matcher:        matcher,
		logger:         logger,
		wardrobeFolder: wardrobeFolder,
		maxImages:      maxImages,
	}
}

// UploadGarments классифицирует, векторизует и сохраняет вещи.
// Строки, дерево тегов, outbox и векторы пишутся в одной транзакции, при ошибке всё откатывается.
func (w *WardrobeUseCase) UploadGarments(ctx context.Context, req *UploadGarmentsReq) (*UploadGarmentsRes, error) {
	const op = "WardrobeUseCase.UploadGarments"

	var err error
	if err = w.validateUpload(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Классификация и векторы до любых записей
	analyzed, err := w.encoder.AnalyzeImages(ctx, NewAnalyzeImagesReq(req.Images))
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err))
	}
	if len(analyzed) != len(req.Images) {
		return nil, e.Wrap(op, e.ErrImageClassifyMismatch)
	}

	imagesRes, err := w.imagesInfra.UploadImages(ctx, NewUploadImagesReq(path.Join(w.wardrobeFolder, req.OwnerID), req.Images))
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err))
	}

	garments := make([]*domain.Garment, 0, len(analyzed))
	embeddings := make([]domain.Embedding, 0, len(analyzed))
	for i, a := range analyzed {
		if len(a.Vector) == 0 {
			err = e.ErrVectorEmbeddingEmpty
			break
		}
		g := domain.NewGarment(req.OwnerID, a.Tags, imagesRes.URLs[i], imagesRes.Keys[i])
		garments = append(garments, g)
		embeddings = append(embeddings, *domain.NewEmbedding(g.ID, a.Vector, domain.NewGarmentPayload(g)))
	}

	var vectorsWritten bool
	// Если произошла ошибка, удаляются загруженные изображения и записанные векторы
	defer func() {
		if err == nil {
			return
		}

		w.logger.Warnf(
			"Cleaning up orphaned images after upload failure. owner: %s, images: %d, error: %v",
			req.OwnerID,
			len(imagesRes.Keys),
			e.Wrap(op, err),
		)
		w.imagesInfra.CleanupImages(imagesRes.Keys)

		if vectorsWritten {
			ids := make([]string, len(embeddings))
			for i, emb := range embeddings {
				ids[i] = emb.ID
			}
			if delErr := w.index.Delete(context.WithoutCancel(ctx), ids); delErr != nil {
				w.logger.Errorf(delErr, "Failed to delete orphaned vectors: %v", ids)
			}
		}
	}()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = w.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		tree, err := w.tagTreeRepo.GetForUpdate(ctx, req.OwnerID)
		if err != nil {
			return err
		}

		for _, g := range garments {
			if err := w.garmentRepo.Create(ctx, g); err != nil {
				return err
			}
			tree.Add(g.CategoryGroup, g.Category, g.ID)

			event, err := NewGarmentEvent(GarmentCreated, g)
			if err != nil {
				return err
			}
			if _, err := w.outboxRepo.Create(ctx, event); err != nil {
				return err
			}
		}

		if err := w.tagTreeRepo.Save(ctx, req.OwnerID, tree); err != nil {
			return err
		}

		// Вектор пишется последним перед коммитом: нет строки без вектора и наоборот
		vectorsWritten = true
		return w.index.Upsert(ctx, embeddings)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	w.logger.Infof("Uploaded %d garments for owner %s", len(garments), req.OwnerID)

	return &UploadGarmentsRes{Garments: garments}, nil
}

// ListGarments возвращает вещи владельца, новые первыми.
func (w *WardrobeUseCase) ListGarments(ctx context.Context, ownerID string) ([]*domain.Garment, error) {
	const op = "WardrobeUseCase.ListGarments"

	garments, err := w.garmentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return garments, nil
}

// DeleteGarment удаляет вещь, после коммита убирает вектор, кэш и изображение.
func (w *WardrobeUseCase) DeleteGarment(ctx context.Context, req *DeleteGarmentReq) error {
	const op = "WardrobeUseCase.DeleteGarment"

	if req.OwnerID == "" || req.ItemID == "" {
		return e.Wrap(op, e.ErrGarmentNotFound)
	}

	var deleted *domain.Garment
	err := w.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		tree, err := w.tagTreeRepo.GetForUpdate(ctx, req.OwnerID)
		if err != nil {
			return err
		}

		deleted, err = w.garmentRepo.Delete(ctx, req.OwnerID, req.ItemID)
		if err != nil {
			return err
		}

		if tree.RemoveEverywhere(deleted.ID) {
			if err := w.tagTreeRepo.Save(ctx, req.OwnerID, tree); err != nil {
				return err
			}
		}

		event, err := NewGarmentEvent(GarmentDeleted, deleted)
		if err != nil {
			return err
		}
		_, err = w.outboxRepo.Create(ctx, event)
		return err
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	// Вектор удаляется только после коммита. Если удаление не прошло, точка остаётся
	// сиротой, а матчер такие попадания пропускает.
	if err := w.index.Delete(ctx, []string{deleted.ID}); err != nil {
		w.logger.Warnf("%s: vector %s left in index: %v", op, deleted.ID, err)
	}
	w.catalog.Invalidate(ctx, []string{deleted.ID})
	if deleted.ImageKey != "" {
		w.imagesInfra.CleanupImages([]string{deleted.ImageKey})
	}

	return nil
}

// GetTagTree возвращает дерево тегов владельца. Для нового пользователя дерево пустое.
func (w *WardrobeUseCase) GetTagTree(ctx context.Context, ownerID string) (*domain.TagTree, error) {
	const op = "WardrobeUseCase.GetTagTree"

	tree, err := w.tagTreeRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return tree, nil
}

// SearchByText ищет вещи по текстовому описанию в общем пространстве векторов.
func (w *WardrobeUseCase) SearchByText(ctx context.Context, req *SearchReq) ([]domain.MatchedItem, error) {
	const op = "WardrobeUseCase.SearchByText"

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, e.Wrap(op, e.ErrEmptyQuery)
	}
	if req.CategoryGroup != "" && !req.CategoryGroup.Valid() {
		return nil, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrInvalidCategoryGroup, req.CategoryGroup))
	}

	vector, err := w.encoder.EmbedText(ctx, query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, e.Wrap(op, err)
		}
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err))
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	matches, err := w.matcher.FindMatches(ctx, &MatchQuery{
		OwnerID:       req.OwnerID,
		Vector:        vector,
		CategoryGroup: req.CategoryGroup,
		Limit:         limit,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return matches, nil
}

// validateUpload проверяет корректность входных данных загрузки.
func (w *WardrobeUseCase) validateUpload(req *UploadGarmentsReq) error {
	if req.OwnerID == "" {
		return e.ErrUnauthorized
	}

	if len(req.Images) == 0 {
		return e.ErrNoImages
	}

	if w.maxImages > 0 && len(req.Images) > w.maxImages {
		return e.ErrTooManyImages
	}

	return nil
}
