package usecase

import (
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
)

// WARDROBE USECASE

// GarmentImage представляет изображение, загруженное через multipart/form-data.
type GarmentImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

type UploadGarmentsReq struct {
	OwnerID string
	Images  []GarmentImage
}

type UploadGarmentsRes struct {
	Garments []*domain.Garment
}

type DeleteGarmentReq struct {
	OwnerID string
	ItemID  string
}

// SearchReq - текстовый поиск по гардеробу, группа необязательна.
type SearchReq struct {
	OwnerID       string
	Query         string
	CategoryGroup domain.CategoryGroup
	Limit         int
}

// STYLING USECASE

type StyleOutfitReq struct {
	OwnerID string
	ItemID  string
}

// StyledOutfitRes - результат подбора: исходная вещь всегда первая в MatchedItems.
type StyledOutfitRes struct {
	SourceItem        *domain.Garment
	CompositeImageURL string
	MatchedItems      []domain.MatchedItem
	TotalItemCount    int
}

type StyleOptionsReq struct {
	OwnerID       string
	ItemID        string
	IncludeGroups []domain.CategoryGroup // пусто - берутся группы-дополнения
	LimitPerGroup int
}

type StyleOptionsRes struct {
	SourceItem     *domain.Garment
	Groups         []domain.CategoryGroup // порядок групп, в котором шёл подбор
	MatchesByGroup map[domain.CategoryGroup][]domain.MatchedItem
}

// MatchQuery - параметры поиска похожих вещей.
type MatchQuery struct {
	OwnerID       string
	Vector        []float32
	CategoryGroup domain.CategoryGroup // пусто - по всем группам
	Category      string
	Color         string
	Occasion      string
	Season        string
	ExcludeID     string
	Limit         int
}

// RECOMMENDATION USECASE

type RecommendReq struct {
	OwnerID string
	Prompt  string
}

type RecommendRes struct {
	Reasoning          string
	SelectedCategories []string
	Items              []*domain.Garment
	CompositeImageURL  string
}

// CALENDAR USECASE

// SaveCalendarOutfitReq - образ, который пользователь закрепляет за датой.
type SaveCalendarOutfitReq struct {
	OwnerID            string
	OutfitDate         time.Time
	CombinedImageURL   string
	Prompt             string
	Temperature        *float64 // градусы Цельсия, если клиент знал погоду
	SelectedCategories []string
	Items              []domain.CalendarOutfitItem
}

// INFRASTRUCTURE

type AnalyzeImagesReq struct {
	Images []GarmentImage
}

// AnalyzeImageRes - теги и вектор одного изображения.
type AnalyzeImageRes struct {
	Tags         domain.GarmentTags
	Vector       []float32
	ModelVersion string
}

type UploadImagesReq struct {
	Folder string
	Images []GarmentImage
}

// UploadImagesRes - ключи и публичные ссылки в порядке входных изображений.
type UploadImagesRes struct {
	Keys []string
	URLs []string
}

type UploadImageReq struct {
	Folder      string
	Data        []byte
	ContentType string
}

type UploadedImage struct {
	Key string
	URL string
}

// ComposeItem - вход рендера коллажа.
type ComposeItem struct {
	ImageURL      string
	CategoryGroup string
}

type AdviceReq struct {
	Prompt    string
	Available map[domain.CategoryGroup][]string
}

type AdviceRes struct {
	Categories []string
	Reasoning  string
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// MAPPERS

func NewUploadGarmentsReq(ownerID string, images []GarmentImage) *UploadGarmentsReq {
	return &UploadGarmentsReq{OwnerID: ownerID, Images: images}
}

func NewDeleteGarmentReq(ownerID, itemID string) *DeleteGarmentReq {
	return &DeleteGarmentReq{OwnerID: ownerID, ItemID: itemID}
}

func NewSearchReq(ownerID, query string, group domain.CategoryGroup, limit int) *SearchReq {
	return &SearchReq{OwnerID: ownerID, Query: query, CategoryGroup: group, Limit: limit}
}

func NewGarmentImage(data []byte, mimeType string, size int64, name string) *GarmentImage {
	return &GarmentImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewStyleOutfitReq(ownerID, itemID string) *StyleOutfitReq {
	return &StyleOutfitReq{OwnerID: ownerID, ItemID: itemID}
}

func NewStyledOutfitRes(source *domain.Garment, compositeURL string, items []domain.MatchedItem) *StyledOutfitRes {
	return &StyledOutfitRes{
		SourceItem:        source,
		CompositeImageURL: compositeURL,
		MatchedItems:      items,
		TotalItemCount:    len(items),
	}
}

func NewStyleOptionsReq(ownerID, itemID string, groups []domain.CategoryGroup, limit int) *StyleOptionsReq {
	return &StyleOptionsReq{
		OwnerID:       ownerID,
		ItemID:        itemID,
		IncludeGroups: groups,
		LimitPerGroup: limit,
	}
}

func NewSaveCalendarOutfitReq(ownerID string, date time.Time, imageURL string) *SaveCalendarOutfitReq {
	return &SaveCalendarOutfitReq{OwnerID: ownerID, OutfitDate: date, CombinedImageURL: imageURL}
}

func NewRecommendReq(ownerID, prompt string) *RecommendReq {
	return &RecommendReq{OwnerID: ownerID, Prompt: prompt}
}

func NewAnalyzeImagesReq(images []GarmentImage) *AnalyzeImagesReq {
	return &AnalyzeImagesReq{Images: images}
}

func NewUploadImagesReq(folder string, images []GarmentImage) *UploadImagesReq {
	return &UploadImagesReq{Folder: folder, Images: images}
}

func NewUploadImagesRes(keys, urls []string) *UploadImagesRes {
	return &UploadImagesRes{Keys: keys, URLs: urls}
}

func NewUploadImageReq(folder string, data []byte, contentType string) *UploadImageReq {
	return &UploadImageReq{Folder: folder, Data: data, ContentType: contentType}
}

func NewAdviceReq(prompt string, available map[domain.CategoryGroup][]string) *AdviceReq {
	return &AdviceReq{Prompt: prompt, Available: available}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{Key: key, Payload: payload}
}

// toComposeItems сохраняет порядок вещей.
func toComposeItems(garments []*domain.Garment) []ComposeItem {
	res := make([]ComposeItem, 0, len(garments))
	for _, g := range garments {
		res = append(res, ComposeItem{ImageURL: g.ImageURL, CategoryGroup: string(g.CategoryGroup)})
	}
	return res
}
