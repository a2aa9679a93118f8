package composer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/retry"
	_ "golang.org/x/image/webp"
)

// HTTPDownloader скачивает и декодирует изображения вещей по публичной ссылке.
type HTTPDownloader struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	policy   retry.Policy
}

func NewHTTPDownloader(cfg *cfg.StylingCfg) *HTTPDownloader {
	return &HTTPDownloader{
		client:   &http.Client{},
		timeout:  cfg.DownloadTimeout,
		maxBytes: cfg.MaxDownloadBytes,
		policy:   retry.Policy{Attempts: cfg.ReadAttempts, Base: 200 * time.Millisecond, Max: 2 * time.Second},
	}
}

// Download возвращает декодированное изображение с учётом EXIF-ориентации.
// Таймаут действует на каждую попытку. 4xx и ошибки декодирования не повторяются.
func (d *HTTPDownloader) Download(ctx context.Context, url string) (image.Image, error) {
	const op = "HTTPDownloader.Download"

	var img image.Image
	err := retry.Do(ctx, d.policy, func(ctx context.Context) error {
		data, err := d.fetch(ctx, url)
		if err != nil {
			return err
		}

		decoded, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return retry.Permanent(fmt.Errorf("decode: %w", err))
		}

		img = decoded
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return img, nil
}

func (d *HTTPDownloader) fetch(ctx context.Context, url string) ([]byte, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	body := io.Reader(resp.Body)
	if d.maxBytes > 0 {
		body = io.LimitReader(resp.Body, d.maxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if d.maxBytes > 0 && int64(len(data)) > d.maxBytes {
		return nil, retry.Permanent(e.ErrFileTooLarge)
	}

	return data, nil
}
