package minio

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/infrastructure"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/retry"
)

const cleanupTimeout = 30 * time.Second

// cleanupPolicy - до 3 попыток удаления объекта с экспоненциальной задержкой и jitter.
var cleanupPolicy = retry.Policy{Attempts: 3, Base: time.Second, Max: 8 * time.Second}

// MinioInfrastructure управляет загрузкой и очисткой изображений в MinIO.
type MinioInfrastructure struct {
	minioRepo         usecase.ImageRepository
	cfg               *cfg.MinIOCfg
	logger            logger.Logger
	shutdownCtx       context.Context
	wg                sync.WaitGroup
	uploadImagesLimit int
	cleanupPolicy     retry.Policy
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	limit := cfg.UploadImagesLimit
	if limit <= 0 {
		limit = 1
	}

	return &MinioInfrastructure{
		minioRepo:         minioRepo,
		cfg:               cfg,
		logger:            logger,
		shutdownCtx:       shutdownCtx,
		uploadImagesLimit: limit,
		cleanupPolicy:     cleanupPolicy,
	}
}

type uploadResult struct {
	idx int
	key string
	err error
}

// UploadImages загружает изображения параллельно с ограничением одновременных операций.
// Ключи и ссылки возвращаются в порядке входных изображений. При ошибке остальные загрузки
// отменяются, а уже загруженные объекты удаляются в фоне.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"
	// Отмена остальных загрузок при первой ошибке
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan uploadResult, len(req.Images))
	sem := make(chan struct{}, m.uploadImagesLimit)

	for i, image := range req.Images {
		go func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				resCh <- uploadResult{idx: i, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			key, err := m.upload(ctx, req.Folder, image.Data, image.MimeType)
			if err != nil {
				err = fmt.Errorf("upload %s failed: %w", image.Name, err)
			}
			resCh <- uploadResult{idx: i, key: key, err: err}
		}()
	}

	keys := make([]string, len(req.Images))
	var firstErr error
	for range req.Images {
		res := <-resCh
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		keys[res.idx] = res.key
	}

	if firstErr != nil {
		uploaded := make([]string, 0, len(keys))
		for _, k := range keys {
			if k != "" {
				uploaded = append(uploaded, k)
			}
		}
		m.CleanupImages(uploaded)
		return nil, e.Wrap(op, firstErr)
	}

	urls := make([]string, len(keys))
	for i, k := range keys {
		urls[i] = m.minioRepo.PublicURL(k)
	}

	return usecase.NewUploadImagesRes(keys, urls), nil
}

// UploadImage загружает одно изображение, например собранный коллаж.
func (m *MinioInfrastructure) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadedImage, error) {
	const op = "MinioInfrastructure.UploadImage"

	key, err := m.upload(ctx, req.Folder, req.Data, req.ContentType)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &usecase.UploadedImage{Key: key, URL: m.minioRepo.PublicURL(key)}, nil
}

func (m *MinioInfrastructure) upload(ctx context.Context, folder string, data []byte, mimeType string) (string, error) {
	ext, err := infrastructure.GetExtensionFromMIME(mimeType)
	if err != nil {
		return "", fmt.Errorf("invalid mime type %s: %w", mimeType, err)
	}

	imageID := uuid.NewString()
	objKey := path.Join(folder, imageID+"."+ext)

	return m.minioRepo.Upload(ctx, domain.NewImage(imageID, m.cfg.BucketName, objKey, data, mimeType))
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done() // сигнализируем завершение компенсации
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: Cleaning up %d uploaded keys", op, len(keys))

	// Создаём контекст с таймаутом на основе shutdownCtx
	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		err := retry.Do(ctx, m.cleanupPolicy, func(ctx context.Context) error {
			return m.minioRepo.Delete(ctx, key)
		})
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
			return
		}
		m.logger.Errorf(err, "%s: failed to delete key=%v", op, key)
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
