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

type StylingHandler struct {
	stylingUsecase usecase.StylingUC
	logger         logger.Logger
}

func NewStylingHandler(stylingUsecase usecase.StylingUC, logger logger.Logger) *StylingHandler {
	return &StylingHandler{stylingUsecase: stylingUsecase, logger: logger}
}

// styleOutfit
//
//	@Summary		Подбор образа к вещи
//	@Description	Подбирает по одной вещи в каждую группу-дополнение и собирает коллаж
//	@Tags			styling
//	@Produce		json
//	@Security		BearerAuth
//	@Param			itemID	path		string	true	"ID исходной вещи"
//	@Success		200		{object}	StyleOutfitResponse
//	@Failure		404		{object}	ErrorResponse	"Item not found"
//	@Failure		422		{object}	ErrorResponse	"Item embedding not found"
//	@Failure		503		{object}	ErrorResponse	"Векторный индекс или хранилище недоступны"
//	@Router			/styling/{itemID} [get]
func (h *StylingHandler) styleOutfit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	itemID := chi.URLParam(r, "itemID")
	res, err := h.stylingUsecase.StyleOutfit(r.Context(), usecase.NewStyleOutfitReq(ownerID, itemID))
	if err != nil {
		h.logger.Warnf("style outfit %s for %s: %v", itemID, ownerID, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toStyleOutfitResponse(res))
}

// styleOptions
//
//	@Summary		Варианты вещей к исходной по группам
//	@Tags			styling
//	@Produce		json
//	@Security		BearerAuth
//	@Param			itemID	path		string	true	"ID исходной вещи"
//	@Param			groups	query		string	false	"Группы через запятую, по умолчанию группы-дополнения"
//	@Param			limit	query		int		false	"Вещей на группу (1-10, по умолчанию 1)"
//	@Success		200		{object}	StyleOptionsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/styling/{itemID}/options [get]
func (h *StylingHandler) styleOptions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	query := r.URL.Query()

	var groups []domain.CategoryGroup
	for _, raw := range strings.Split(query.Get("groups"), ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		g, ok := domain.ParseCategoryGroup(raw)
		if !ok {
			WriteError(w, e.ErrInvalidCategoryGroup)
			return
		}
		groups = append(groups, g)
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
		limit = parsed
	}

	itemID := chi.URLParam(r, "itemID")
	res, err := h.stylingUsecase.StyleOutfitWithOptions(r.Context(), usecase.NewStyleOptionsReq(ownerID, itemID, groups, limit))
	if err != nil {
		h.logger.Warnf("style options %s for %s: %v", itemID, ownerID, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toStyleOptionsResponse(res))
}
