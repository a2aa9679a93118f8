package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

type WardrobeHandler struct {
	wardrobeUsecase usecase.WardrobeUC
	logger          logger.Logger
}

func NewWardrobeHandler(wardrobeUsecase usecase.WardrobeUC, logger logger.Logger) *WardrobeHandler {
	return &WardrobeHandler{wardrobeUsecase: wardrobeUsecase, logger: logger}
}

// uploadGarments
//
//	@Summary		Загрузка вещей в гардероб
//	@Description	Классифицирует фотографии, сохраняет вещи и их векторы
//	@Tags			wardrobe
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			images	formData	file					true	"Фотографии вещей"
//	@Success		201		{object}	UploadGarmentsResponse	"Вещи сохранены"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		401		{object}	ErrorResponse			"Нет токена"
//	@Failure		503		{object}	ErrorResponse			"ML-сервис или хранилище недоступны"
//	@Router			/wardrobe [post]
func (h *WardrobeHandler) uploadGarments(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"], usecase.MaxUploadImages)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.wardrobeUsecase.UploadGarments(r.Context(), usecase.NewUploadGarmentsReq(ownerID, images))
	if err != nil {
		h.logger.Errorf(err, "upload garments for %s", ownerID)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, UploadGarmentsResponse{
		Success: true,
		Count:   len(res.Garments),
		UserID:  ownerID,
		Items:   toArrGarmentResponse(res.Garments, true),
	})
}

// listGarments
//
//	@Summary		Гардероб пользователя
//	@Tags			wardrobe
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ListGarmentsResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/wardrobe [get]
func (h *WardrobeHandler) listGarments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	garments, err := h.wardrobeUsecase.ListGarments(r.Context(), ownerID)
	if err != nil {
		h.logger.Errorf(err, "list garments for %s", ownerID)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ListGarmentsResponse{
		Success: true,
		Count:   len(garments),
		Items:   toArrGarmentResponse(garments, true),
	})
}

// deleteGarment
//
//	@Summary		Удаление вещи
//	@Tags			wardrobe
//	@Produce		json
//	@Security		BearerAuth
//	@Param			itemID	path		string	true	"ID вещи"
//	@Success		200		{object}	MessageResponse
//	@Failure		404		{object}	ErrorResponse	"Вещь не найдена или чужая"
//	@Router			/wardrobe/{itemID} [delete]
func (h *WardrobeHandler) deleteGarment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	itemID := chi.URLParam(r, "itemID")
	if err := h.wardrobeUsecase.DeleteGarment(r.Context(), usecase.NewDeleteGarmentReq(ownerID, itemID)); err != nil {
		h.logger.Warnf("delete garment %s for %s: %v", itemID, ownerID, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{Success: true, Message: "Item deleted"})
}

// getTagTree
//
//	@Summary		Дерево категорий гардероба
//	@Description	Группа -> категория -> id вещей
//	@Tags			wardrobe
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	TagTreeResponse
//	@Router			/wardrobe/tags [get]
func (h *WardrobeHandler) getTagTree(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	tree, err := h.wardrobeUsecase.GetTagTree(r.Context(), ownerID)
	if err != nil {
		h.logger.Errorf(err, "get tag tree for %s", ownerID)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, TagTreeResponse{Success: true, TagsByCategory: tree})
}

// searchGarments
//
//	@Summary		Текстовый поиск по гардеробу
//	@Tags			wardrobe
//	@Produce		json
//	@Security		BearerAuth
//	@Param			q		query		string	true	"Запрос, например «red dress»"
//	@Param			group	query		string	false	"Группа категорий"
//	@Param			limit	query		int		false	"Сколько вещей вернуть"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/wardrobe/search [get]
func (h *WardrobeHandler) searchGarments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	query := r.URL.Query()

	var group domain.CategoryGroup
	if raw := strings.TrimSpace(query.Get("group")); raw != "" {
		parsed, ok := domain.ParseCategoryGroup(raw)
		if !ok {
			WriteError(w, e.ErrInvalidCategoryGroup)
			return
		}
		group = parsed
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
		limit = parsed
	}

	text := query.Get("q")
	items, err := h.wardrobeUsecase.SearchByText(r.Context(), usecase.NewSearchReq(ownerID, text, group, limit))
	if err != nil {
		h.logger.Warnf("search %q for %s: %v", text, ownerID, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, SearchResponse{
		Success: true,
		Query:   strings.TrimSpace(text),
		Count:   len(items),
		Items:   toArrMatchedItemResponse(items),
	})
}
