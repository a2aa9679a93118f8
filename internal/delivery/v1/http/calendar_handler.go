package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

type CalendarHandler struct {
	calendarUsecase usecase.CalendarUC
	logger          logger.Logger
}

func NewCalendarHandler(calendarUsecase usecase.CalendarUC, logger logger.Logger) *CalendarHandler {
	return &CalendarHandler{calendarUsecase: calendarUsecase, logger: logger}
}

// saveOutfit
//
//	@Summary		Сохранить образ на дату
//	@Description	Образ на ту же дату заменяется. Образы старше 5 дней до новой даты удаляются
//	@Tags			calendar
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		SaveCalendarOutfitRequest	true	"Образ"
//	@Success		200		{object}	CalendarOutfitEnvelope
//	@Failure		400		{object}	ErrorResponse
//	@Router			/calendar-outfits [post]
func (h *CalendarHandler) saveOutfit(w http.ResponseWriter, r *http.Request) {
	const maxBodySize = 64 << 10

	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	var req SaveCalendarOutfitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	date, err := domain.ParseOutfitDate(req.OutfitDate)
	if err != nil {
		WriteError(w, e.ErrInvalidOutfitDate)
		return
	}

	saved, err := h.calendarUsecase.SaveOutfit(r.Context(), toSaveCalendarOutfitReq(ownerID, date, &req))
	if err != nil {
		h.logger.Warnf("save calendar outfit %s for %s: %v", req.OutfitDate, ownerID, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, CalendarOutfitEnvelope{Success: true, Outfit: toCalendarOutfitResponse(saved)})
}

// listOutfits
//
//	@Summary		Все образы календаря
//	@Tags			calendar
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ListCalendarOutfitsResponse
//	@Router			/calendar-outfits [get]
func (h *CalendarHandler) listOutfits(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	outfits, err := h.calendarUsecase.ListOutfits(r.Context(), ownerID)
	if err != nil {
		h.logger.Errorf(err, "list calendar outfits for %s", ownerID)
		WriteError(w, err)
		return
	}

	items := make([]CalendarOutfitResponse, 0, len(outfits))
	for _, o := range outfits {
		items = append(items, toCalendarOutfitResponse(o))
	}

	WriteSuccess(w, http.StatusOK, ListCalendarOutfitsResponse{Success: true, Count: len(items), Outfits: items})
}

// getOutfit
//
//	@Summary		Образ на дату
//	@Tags			calendar
//	@Produce		json
//	@Security		BearerAuth
//	@Param			date	path		string	true	"Дата, YYYY-MM-DD"
//	@Success		200		{object}	CalendarOutfitEnvelope
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"На дату ничего не сохранено"
//	@Router			/calendar-outfits/{date} [get]
func (h *CalendarHandler) getOutfit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	date, err := domain.ParseOutfitDate(chi.URLParam(r, "date"))
	if err != nil {
		WriteError(w, e.ErrInvalidOutfitDate)
		return
	}

	outfit, err := h.calendarUsecase.GetOutfit(r.Context(), ownerID, date)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, CalendarOutfitEnvelope{Success: true, Outfit: toCalendarOutfitResponse(outfit)})
}

// deleteOutfit
//
//	@Summary		Удалить образ на дату
//	@Tags			calendar
//	@Produce		json
//	@Security		BearerAuth
//	@Param			date	path		string	true	"Дата, YYYY-MM-DD"
//	@Success		200		{object}	MessageResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/calendar-outfits/{date} [delete]
func (h *CalendarHandler) deleteOutfit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	date, err := domain.ParseOutfitDate(chi.URLParam(r, "date"))
	if err != nil {
		WriteError(w, e.ErrInvalidOutfitDate)
		return
	}

	if err := h.calendarUsecase.DeleteOutfit(r.Context(), ownerID, date); err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{Success: true, Message: "Outfit deleted"})
}
