package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	_ "github.com/vansh-khaneja/WearWhat-backend/docs" // регистрация swagger-спецификации
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Handlers - зависимости роутера.
type Handlers struct {
	Wardrobe       usecase.WardrobeUC
	Styling        usecase.StylingUC
	Recommendation usecase.RecommendationUC
	Calendar       usecase.CalendarUC
	Auth           *Authenticator
	Metrics        http.Handler
	SwaggerURL     string
}

func (r *Router) Init(h Handlers) {
	r.router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(h.SwaggerURL),
	))

	if h.Metrics != nil {
		r.router.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, MessageResponse{Success: true, Message: "ok"})
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(h.Auth.Middleware)

		registerWardrobeRoutes(v1, NewWardrobeHandler(h.Wardrobe, r.logger))
		registerStylingRoutes(v1, NewStylingHandler(h.Styling, r.logger))
		registerRecommendationRoutes(v1, NewRecommendationHandler(h.Recommendation, r.logger))
		registerCalendarRoutes(v1, NewCalendarHandler(h.Calendar, r.logger))
	})
}

func registerWardrobeRoutes(router chi.Router, h *WardrobeHandler) {
	router.Route("/wardrobe", func(wr chi.Router) {
		wr.Post("/", h.uploadGarments)
		wr.Get("/", h.listGarments)
		wr.Get("/tags", h.getTagTree)
		wr.Get("/search", h.searchGarments)
		wr.Delete("/{itemID}", h.deleteGarment)
	})
}

func registerStylingRoutes(router chi.Router, h *StylingHandler) {
	router.Route("/styling", func(sr chi.Router) {
		sr.Get("/{itemID}", h.styleOutfit)
		sr.Get("/{itemID}/options", h.styleOptions)
	})
}

func registerRecommendationRoutes(router chi.Router, h *RecommendationHandler) {
	router.Post("/recommendation", h.recommend)
}

func registerCalendarRoutes(router chi.Router, h *CalendarHandler) {
	router.Route("/calendar-outfits", func(cr chi.Router) {
		cr.Post("/", h.saveOutfit)
		cr.Get("/", h.listOutfits)
		cr.Get("/{date}", h.getOutfit)
		cr.Delete("/{date}", h.deleteOutfit)
	})
}
