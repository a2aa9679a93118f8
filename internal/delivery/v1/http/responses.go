package http

import (
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
)

// GarmentResponse - вещь в ответах API.
type GarmentResponse struct {
	ID            string            `json:"id"`
	ImageURL      string            `json:"image_url"`
	CategoryGroup string            `json:"categoryGroup"`
	Category      string            `json:"category"`
	Attributes    map[string]string `json:"attributes"`
	CreatedAt     *time.Time        `json:"created_at,omitempty"`
}

type MatchedItemResponse struct {
	GarmentResponse
	IsSource   bool    `json:"is_source"`
	MatchScore float64 `json:"match_score"`
}

type StyleOutfitResponse struct {
	Success          bool                  `json:"success"`
	SourceItem       GarmentResponse       `json:"source_item"`
	CombinedImageURL *string               `json:"combined_image_url"`
	MatchedItems     []MatchedItemResponse `json:"matched_items"`
	TotalItems       int                   `json:"total_items"`
}

type StyleOptionsResponse struct {
	Success           bool                             `json:"success"`
	SourceItem        GarmentResponse                  `json:"source_item"`
	Groups            []string                         `json:"groups"`
	MatchesByCategory map[string][]MatchedItemResponse `json:"matches_by_category"`
}

type UploadGarmentsResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	UserID  string            `json:"user_id"`
	Items   []GarmentResponse `json:"items"`
}

type ListGarmentsResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Items   []GarmentResponse `json:"items"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type TagTreeResponse struct {
	Success        bool            `json:"success"`
	TagsByCategory *domain.TagTree `json:"tags_by_category"`
}

type SearchResponse struct {
	Success bool                  `json:"success"`
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Items   []MatchedItemResponse `json:"items"`
}

type RecommendRequest struct {
	Prompt string `json:"prompt"`
}

type RecommendResponse struct {
	Success            bool              `json:"success"`
	Prompt             string            `json:"prompt"`
	Reasoning          string            `json:"reasoning"`
	SelectedCategories []string          `json:"selected_categories"`
	CombinedImageURL   *string           `json:"combined_image_url"`
	Items              []GarmentResponse `json:"items"`
}

type CalendarOutfitItemDTO struct {
	ID            string `json:"id"`
	ImageURL      string `json:"image_url"`
	CategoryGroup string `json:"categoryGroup,omitempty"`
	Category      string `json:"category,omitempty"`
}

type SaveCalendarOutfitRequest struct {
	OutfitDate         string                  `json:"outfit_date"`
	CombinedImageURL   string                  `json:"combined_image_url"`
	Prompt             string                  `json:"prompt,omitempty"`
	Temperature        *float64                `json:"temperature,omitempty"`
	SelectedCategories []string                `json:"selected_categories"`
	Items              []CalendarOutfitItemDTO `json:"items"`
}

type CalendarOutfitResponse struct {
	ID                 string                  `json:"id"`
	OutfitDate         string                  `json:"outfit_date"`
	CombinedImageURL   string                  `json:"combined_image_url"`
	Prompt             *string                 `json:"prompt"`
	Temperature        *float64                `json:"temperature"`
	SelectedCategories []string                `json:"selected_categories"`
	Items              []CalendarOutfitItemDTO `json:"items"`
	CreatedAt          time.Time               `json:"created_at"`
}

type CalendarOutfitEnvelope struct {
	Success bool                   `json:"success"`
	Outfit  CalendarOutfitResponse `json:"outfit"`
}

type ListCalendarOutfitsResponse struct {
	Success bool                     `json:"success"`
	Count   int                      `json:"count"`
	Outfits []CalendarOutfitResponse `json:"outfits"`
}

// MAPPERS

func toGarmentResponse(g *domain.Garment, withCreatedAt bool) GarmentResponse {
	attrs := g.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}

	res := GarmentResponse{
		ID:            g.ID,
		ImageURL:      g.ImageURL,
		CategoryGroup: string(g.CategoryGroup),
		Category:      g.Category,
		Attributes:    attrs,
	}
	if withCreatedAt && !g.CreatedAt.IsZero() {
		createdAt := g.CreatedAt
		res.CreatedAt = &createdAt
	}
	return res
}

func toArrGarmentResponse(garments []*domain.Garment, withCreatedAt bool) []GarmentResponse {
	res := make([]GarmentResponse, 0, len(garments))
	for _, g := range garments {
		res = append(res, toGarmentResponse(g, withCreatedAt))
	}
	return res
}

func toMatchedItemResponse(item domain.MatchedItem) MatchedItemResponse {
	return MatchedItemResponse{
		GarmentResponse: toGarmentResponse(item.Garment, false),
		IsSource:        item.IsSource,
		MatchScore:      roundScore(item.Score),
	}
}

func toArrMatchedItemResponse(items []domain.MatchedItem) []MatchedItemResponse {
	res := make([]MatchedItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toMatchedItemResponse(item))
	}
	return res
}

// optionalURL превращает пустую ссылку в null.
func optionalURL(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}

func toStyleOutfitResponse(res *usecase.StyledOutfitRes) StyleOutfitResponse {
	return StyleOutfitResponse{
		Success:          true,
		SourceItem:       toGarmentResponse(res.SourceItem, false),
		CombinedImageURL: optionalURL(res.CompositeImageURL),
		MatchedItems:     toArrMatchedItemResponse(res.MatchedItems),
		TotalItems:       res.TotalItemCount,
	}
}

func toStyleOptionsResponse(res *usecase.StyleOptionsRes) StyleOptionsResponse {
	groups := make([]string, 0, len(res.Groups))
	byGroup := make(map[string][]MatchedItemResponse, len(res.MatchesByGroup))
	for _, g := range res.Groups {
		groups = append(groups, string(g))
		if items, ok := res.MatchesByGroup[g]; ok {
			byGroup[string(g)] = toArrMatchedItemResponse(items)
		}
	}

	return StyleOptionsResponse{
		Success:           true,
		SourceItem:        toGarmentResponse(res.SourceItem, false),
		Groups:            groups,
		MatchesByCategory: byGroup,
	}
}

func toRecommendResponse(prompt string, res *usecase.RecommendRes) RecommendResponse {
	return RecommendResponse{
		Success:            true,
		Prompt:             prompt,
		Reasoning:          res.Reasoning,
		SelectedCategories: res.SelectedCategories,
		CombinedImageURL:   optionalURL(res.CompositeImageURL),
		Items:              toArrGarmentResponse(res.Items, false),
	}
}

func toSaveCalendarOutfitReq(ownerID string, date time.Time, req *SaveCalendarOutfitRequest) *usecase.SaveCalendarOutfitReq {
	res := usecase.NewSaveCalendarOutfitReq(ownerID, date, req.CombinedImageURL)
	res.Prompt = req.Prompt
	res.Temperature = req.Temperature
	res.SelectedCategories = req.SelectedCategories
	res.Items = make([]domain.CalendarOutfitItem, 0, len(req.Items))
	for _, it := range req.Items {
		res.Items = append(res.Items, domain.CalendarOutfitItem{
			ID:            it.ID,
			ImageURL:      it.ImageURL,
			CategoryGroup: domain.CategoryGroup(it.CategoryGroup),
			Category:      it.Category,
		})
	}
	return res
}

func toCalendarOutfitResponse(o *domain.CalendarOutfit) CalendarOutfitResponse {
	items := make([]CalendarOutfitItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, CalendarOutfitItemDTO{
			ID:            it.ID,
			ImageURL:      it.ImageURL,
			CategoryGroup: string(it.CategoryGroup),
			Category:      it.Category,
		})
	}

	categories := o.SelectedCategories
	if categories == nil {
		categories = []string{}
	}

	var prompt *string
	if o.Prompt != "" {
		prompt = &o.Prompt
	}

	return CalendarOutfitResponse{
		ID:                 o.ID,
		OutfitDate:         o.OutfitDate.Format(domain.OutfitDateLayout),
		CombinedImageURL:   o.CombinedImageURL,
		Prompt:             prompt,
		Temperature:        o.Temperature,
		SelectedCategories: categories,
		Items:              items,
		CreatedAt:          o.CreatedAt,
	}
}
