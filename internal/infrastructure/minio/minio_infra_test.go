package minio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/retry"
)

type fakeImageRepo struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  byte // первый байт данных, на котором Upload падает
	deleted []string
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{objects: make(map[string][]byte)}
}

func (f *fakeImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	if f.failOn != 0 && len(image.Bytes) > 0 && image.Bytes[0] == f.failOn {
		return "", errors.New("s3: access denied")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[image.ObjectKey] = image.Bytes
	return image.ObjectKey, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImageRepo) PublicURL(key string) string {
	return "http://minio/wearwhat/" + key
}

func newTestInfra(repo usecase.ImageRepository) *MinioInfrastructure {
	log := logger.NewSlogLoggerWithWriter(io.Discard, slog.LevelError)
	infra := NewMinioInfrastructure(repo, &cfg.MinIOCfg{BucketName: "wearwhat", UploadImagesLimit: 2}, log, context.Background())
	infra.cleanupPolicy = retry.Policy{Attempts: 1, Base: time.Millisecond, Max: time.Millisecond}
	return infra
}

func TestUploadImages_PreservesInputOrder(t *testing.T) {
	repo := newFakeImageRepo()
	infra := newTestInfra(repo)

	images := []usecase.GarmentImage{
		{Data: []byte{1}, MimeType: "image/jpeg", Name: "a"},
		{Data: []byte{2}, MimeType: "image/png", Name: "b"},
		{Data: []byte{3}, MimeType: "image/webp", Name: "c"},
	}

	res, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("wardrobe/u1", images))
	require.NoError(t, err)
	require.Len(t, res.Keys, 3)

	for i, key := range res.Keys {
		assert.True(t, strings.HasPrefix(key, "wardrobe/u1/"), key)
		assert.Equal(t, images[i].Data, repo.objects[key])
		assert.Equal(t, "http://minio/wearwhat/"+key, res.URLs[i])
	}
	assert.True(t, strings.HasSuffix(res.Keys[1], ".png"))
}

func TestUploadImages_FailureCleansUpUploaded(t *testing.T) {
	repo := newFakeImageRepo()
	repo.failOn = 9
	infra := newTestInfra(repo)

	images := []usecase.GarmentImage{
		{Data: []byte{1}, MimeType: "image/jpeg", Name: "ok"},
		{Data: []byte{9}, MimeType: "image/jpeg", Name: "broken"},
	}

	_, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("wardrobe/u1", images))
	require.Error(t, err)

	require.NoError(t, infra.WaitForCleanup(context.Background()))
	assert.Empty(t, repo.objects)
}

func TestUploadImage_UnsupportedMime(t *testing.T) {
	infra := newTestInfra(newFakeImageRepo())

	_, err := infra.UploadImage(context.Background(), usecase.NewUploadImageReq("outfit", []byte{1}, "image/gif"))
	assert.Error(t, err)
}

func TestUploadImage_ReturnsPublicURL(t *testing.T) {
	infra := newTestInfra(newFakeImageRepo())

	res, err := infra.UploadImage(context.Background(), usecase.NewUploadImageReq("outfit_recommendations/u1", []byte{1}, "image/jpeg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "outfit_recommendations/u1/"))
	assert.Equal(t, "http://minio/wearwhat/"+res.Key, res.URL)
}
