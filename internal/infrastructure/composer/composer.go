// Package composer рендерит коллаж образа: вещи раскладываются по фиксированным слотам на белом холсте.
package composer

import (
	"bytes"
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

type Downloader interface {
	Download(ctx context.Context, url string) (image.Image, error)
}

type DownloadMetrics interface {
	IncDownloadFailure()
}

// Composer реализует usecase.OutfitComposer.
type Composer struct {
	downloader  Downloader
	metrics     DownloadMetrics
	logger      logger.Logger
	size        int
	quality     int
	concurrency int
}

func NewComposer(downloader Downloader, metrics DownloadMetrics, cfg *cfg.StylingCfg, logger logger.Logger) *Composer {
	return &Composer{
		downloader:  downloader,
		metrics:     metrics,
		logger:      logger,
		size:        cfg.CanvasSize,
		quality:     cfg.JPEGQuality,
		concurrency: max(cfg.DownloadConcurrency, 1),
	}
}

// ComposeOutfit скачивает изображения параллельно и возвращает JPEG size×size.
// Пустой вход - nil без ошибки. Недоступные изображения пропускаются.
func (c *Composer) ComposeOutfit(ctx context.Context, items []usecase.ComposeItem) ([]byte, error) {
	const op = "Composer.ComposeOutfit"

	if len(items) == 0 {
		return nil, nil
	}

	images := c.downloadAll(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(op, err)
	}

	canvas := c.render(items, images)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, e.Wrap(op, err)
	}

	return buf.Bytes(), nil
}

// downloadAll возвращает изображения по индексам входа, nil на месте неудачных загрузок.
func (c *Composer) downloadAll(ctx context.Context, items []usecase.ComposeItem) []image.Image {
	images := make([]image.Image, len(items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, item := range items {
		if item.ImageURL == "" {
			continue
		}

		g.Go(func() error {
			img, err := c.downloader.Download(gCtx, item.ImageURL)
			if err != nil {
				c.logger.Warnf("skip outfit image %s: %v", item.ImageURL, err)
				if c.metrics != nil {
					c.metrics.IncDownloadFailure()
				}
				return nil
			}
			images[i] = img
			return nil
		})
	}

	_ = g.Wait()
	return images
}

// placement - изображение и слот, в который оно попало.
type placement struct {
	img  image.Image
	slot slot
}

// arrange раскладывает скачанные изображения по слотам в порядке входа.
// В одиночные слоты попадает первая вещь группы, аксессуаров не больше maxAccessories.
func (c *Composer) arrange(items []usecase.ComposeItem, images []image.Image) []placement {
	var (
		single      = make(map[bucket]image.Image, 4)
		accessories []image.Image
	)

	for i, img := range images {
		if img == nil {
			continue
		}

		b := bucketOf(items[i].CategoryGroup)
		if b == bucketAccessories {
			if len(accessories) < maxAccessories {
				accessories = append(accessories, img)
			}
			continue
		}
		if _, taken := single[b]; !taken {
			single[b] = img
		}
	}

	l := newLayout(c.size, len(accessories))
	placements := make([]placement, 0, len(single)+len(accessories))

	for _, s := range []struct {
		b    bucket
		slot slot
	}{
		{bucketUpper, l.upper},
		{bucketBottom, l.bottom},
		{bucketOuter, l.outer},
		{bucketFootwear, l.footwear},
	} {
		if img, ok := single[s.b]; ok {
			placements = append(placements, placement{img: img, slot: s.slot})
		}
	}

	for i, img := range accessories {
		placements = append(placements, placement{img: img, slot: l.accessories[i]})
	}

	return placements
}

func (c *Composer) render(items []usecase.ComposeItem, images []image.Image) *image.NRGBA {
	canvas := imaging.New(c.size, c.size, color.White)

	for _, p := range c.arrange(items, images) {
		bounds := p.img.Bounds()
		dst := p.slot.place(bounds.Dx(), bounds.Dy())
		if dst.Empty() {
			continue
		}

		resized := imaging.Resize(p.img, dst.Dx(), dst.Dy(), imaging.Lanczos)
		// альфа смешивается с белым фоном, результат непрозрачный
		canvas = imaging.Overlay(canvas, resized, dst.Min, 1.0)
	}

	return canvas
}
