package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

type RecommendationHandler struct {
	recommendationUsecase usecase.RecommendationUC
	logger                logger.Logger
}

func NewRecommendationHandler(recommendationUsecase usecase.RecommendationUC, logger logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendationUsecase: recommendationUsecase, logger: logger}
}

// recommend
//
//	@Summary		Образ по текстовому запросу
//	@Description	LLM выбирает категории из гардероба, из каждой берётся случайная вещь
//	@Tags			recommendation
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		RecommendRequest	true	"Запрос, например «outfit for a rainy office day»"
//	@Success		200		{object}	RecommendResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"Гардероб пуст"
//	@Router			/recommendation [post]
func (h *RecommendationHandler) recommend(w http.ResponseWriter, r *http.Request) {
	const maxBodySize = 16 << 10

	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	res, err := h.recommendationUsecase.Recommend(r.Context(), usecase.NewRecommendReq(ownerID, req.Prompt))
	if err != nil {
		h.logger.Warnf("recommend for %s: %v", ownerID, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRecommendResponse(strings.TrimSpace(req.Prompt), res))
}
