package usecase

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/retry"
)

var testPolicy = retry.Policy{Attempts: 2, Base: time.Millisecond, Max: 5 * time.Millisecond}

func testLogger() logger.Logger {
	return logger.NewSlogLoggerWithWriter(io.Discard, slog.LevelError)
}

// fakeGarmentRepo хранит вещи в памяти.
type fakeGarmentRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Garment
	err   error
}

func newFakeGarmentRepo(items ...*domain.Garment) *fakeGarmentRepo {
	r := &fakeGarmentRepo{items: make(map[string]*domain.Garment)}
	for _, g := range items {
		r.items[g.ID] = g
	}
	return r
}

func (r *fakeGarmentRepo) Create(_ context.Context, g *domain.Garment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items[g.ID] = g
	return nil
}

func (r *fakeGarmentRepo) GetByID(_ context.Context, id string) (*domain.Garment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return nil, e.ErrGarmentNotFound
	}
	return g, nil
}

func (r *fakeGarmentRepo) GetByIDs(_ context.Context, ids []string) ([]*domain.Garment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	res := make([]*domain.Garment, 0, len(ids))
	for _, id := range ids {
		if g, ok := r.items[id]; ok {
			res = append(res, g)
		}
	}
	return res, nil
}

func (r *fakeGarmentRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Garment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Garment
	for _, g := range r.items {
		if g.OwnerID == ownerID {
			res = append(res, g)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (r *fakeGarmentRepo) Delete(_ context.Context, ownerID, id string) (*domain.Garment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok || g.OwnerID != ownerID {
		return nil, e.ErrGarmentNotFound
	}
	delete(r.items, id)
	return g, nil
}

// nopCache всегда промахивается.
type nopCache struct{}

func (nopCache) GetGarments(context.Context, []string) (map[string]*domain.Garment, error) {
	return map[string]*domain.Garment{}, nil
}
func (nopCache) SetGarments(context.Context, []*domain.Garment) error { return nil }
func (nopCache) DeleteGarments(context.Context, []string) error       { return nil }

// staleCache отдаёт заранее положенные вещи, даже если их уже нет в БД.
type staleCache struct {
	items map[string]*domain.Garment
}

func (c staleCache) GetGarments(_ context.Context, ids []string) (map[string]*domain.Garment, error) {
	res := make(map[string]*domain.Garment, len(ids))
	for _, id := range ids {
		if g, ok := c.items[id]; ok {
			res[id] = g
		}
	}
	return res, nil
}
func (staleCache) SetGarments(context.Context, []*domain.Garment) error { return nil }
func (staleCache) DeleteGarments(context.Context, []string) error       { return nil }

type fakeTagTreeRepo struct {
	mu    sync.Mutex
	trees map[string]*domain.TagTree
}

func newFakeTagTreeRepo() *fakeTagTreeRepo {
	return &fakeTagTreeRepo{trees: make(map[string]*domain.TagTree)}
}

func (r *fakeTagTreeRepo) Get(_ context.Context, ownerID string) (*domain.TagTree, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.trees[ownerID]; ok {
		return t, nil
	}
	return domain.NewTagTree(), nil
}

func (r *fakeTagTreeRepo) GetForUpdate(ctx context.Context, ownerID string) (*domain.TagTree, error) {
	return r.Get(ctx, ownerID)
}

func (r *fakeTagTreeRepo) Save(_ context.Context, ownerID string, tree *domain.TagTree) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees[ownerID] = tree
	return nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = int64(len(r.events) + 1)
	r.events = append(r.events, event)
	return event, nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error { return nil }

func (r *fakeOutboxRepo) ReturnToPending(context.Context, int64) error { return nil }

// fakeCalendarRepo хранит образы по ключу владелец+дата.
type fakeCalendarRepo struct {
	mu      sync.Mutex
	outfits map[string]*domain.CalendarOutfit
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{outfits: make(map[string]*domain.CalendarOutfit)}
}

func calendarKey(ownerID string, date time.Time) string {
	return ownerID + "/" + date.Format(domain.OutfitDateLayout)
}

func (r *fakeCalendarRepo) Upsert(_ context.Context, o *domain.CalendarOutfit) (*domain.CalendarOutfit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := calendarKey(o.OwnerID, o.OutfitDate)
	saved := *o
	if prev, ok := r.outfits[key]; ok {
		saved.ID = prev.ID
	}
	r.outfits[key] = &saved
	return &saved, nil
}

func (r *fakeCalendarRepo) DeleteOlderThan(_ context.Context, ownerID string, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for key, o := range r.outfits {
		if o.OwnerID == ownerID && o.OutfitDate.Before(cutoff) {
			delete(r.outfits, key)
			n++
		}
	}
	return n, nil
}

func (r *fakeCalendarRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.CalendarOutfit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.CalendarOutfit
	for _, o := range r.outfits {
		if o.OwnerID == ownerID {
			res = append(res, o)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].OutfitDate.Before(res[j].OutfitDate) })
	return res, nil
}

func (r *fakeCalendarRepo) GetByDate(_ context.Context, ownerID string, date time.Time) (*domain.CalendarOutfit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.outfits[calendarKey(ownerID, date)]
	if !ok {
		return nil, e.ErrCalendarOutfitNotFound
	}
	return o, nil
}

func (r *fakeCalendarRepo) Delete(_ context.Context, ownerID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := calendarKey(ownerID, date)
	if _, ok := r.outfits[key]; !ok {
		return e.ErrCalendarOutfitNotFound
	}
	delete(r.outfits, key)
	return nil
}

// fakeTransactor выполняет fn без транзакции.
type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// failingCommitTransactor выполняет fn, но коммит не проходит.
type failingCommitTransactor struct {
	err error
}

func (f failingCommitTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.err
}

// failingIndex имитирует недоступный векторный индекс.
type failingIndex struct {
	VectorIndex
	err error
}

func (f failingIndex) Query(context.Context, domain.VectorFilter, []float32, int) ([]domain.VectorMatch, error) {
	return nil, f.err
}

// countingIndex считает запросы к обёрнутому индексу.
type countingIndex struct {
	VectorIndex
	mu    sync.Mutex
	calls int
}

func (c *countingIndex) Query(ctx context.Context, filter domain.VectorFilter, vector []float32, limit int) ([]domain.VectorMatch, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.VectorIndex.Query(ctx, filter, vector, limit)
}

type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) ComposeOutfit(ctx context.Context, items []ComposeItem) ([]byte, error) {
	args := m.Called(ctx, items)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type MockImagesInfra struct {
	mock.Mock
}

func (m *MockImagesInfra) UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*UploadImagesRes)
	return res, args.Error(1)
}

func (m *MockImagesInfra) UploadImage(ctx context.Context, req *UploadImageReq) (*UploadedImage, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*UploadedImage)
	return res, args.Error(1)
}

func (m *MockImagesInfra) CleanupImages(keys []string) {
	m.Called(keys)
}

type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) AnalyzeImages(ctx context.Context, req *AnalyzeImagesReq) ([]AnalyzeImageRes, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).([]AnalyzeImageRes)
	return res, args.Error(1)
}

func (m *MockEncoder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	res, _ := args.Get(0).([]float32)
	return res, args.Error(1)
}

type MockAdvisor struct {
	mock.Mock
}

func (m *MockAdvisor) SelectCategories(ctx context.Context, req *AdviceReq) (*AdviceRes, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*AdviceRes)
	return res, args.Error(1)
}

// recordingMetrics запоминает статусы и пустые группы.
type recordingMetrics struct {
	mu         sync.Mutex
	statuses   []string
	emptySlots []domain.CategoryGroup
}

func (r *recordingMetrics) ObserveStyleOutfit(status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recordingMetrics) IncEmptySlot(group domain.CategoryGroup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emptySlots = append(r.emptySlots, group)
}

func garment(id, owner string, group domain.CategoryGroup, category string) *domain.Garment {
	return &domain.Garment{
		ID:            id,
		OwnerID:       owner,
		CategoryGroup: group,
		Category:      category,
		Attributes:    map[string]string{},
		ImageURL:      "http://img/" + id + ".jpg",
		ImageKey:      "wardrobe/" + owner + "/" + id + ".jpg",
		CreatedAt:     time.Now().UTC(),
	}
}
