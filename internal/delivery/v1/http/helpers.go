package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"github.com/vansh-khaneja/WearWhat-backend/internal/infrastructure"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
)

// Сообщения, которые видит клиент.
const (
	msgItemNotFound      = "Item not found"
	msgMissingEmbedding  = "Item embedding not found. Please re-upload the item."
	msgUpstreamError     = "Styling service is temporarily unavailable. Please try again later."
	msgEmptyWardrobe     = "No items in wardrobe yet"
	msgNoCalendarOutfit  = "No outfit found for this date"
	msgUnauthorized      = "Not authenticated"
	msgRequestTimeout    = "Request timed out"
	msgRequestCanceled   = "Request canceled"
	statusClientCanceled = 499
)

// ErrorResponse - конверт ответа с ошибкой.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Success: false, Message: message}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrGarmentNotFound):
		return http.StatusNotFound, msgItemNotFound
	case errors.Is(err, e.ErrMissingEmbedding):
		return http.StatusUnprocessableEntity, msgMissingEmbedding
	case errors.Is(err, e.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, msgUpstreamError
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, e.ErrEmptyWardrobe):
		return http.StatusNotFound, msgEmptyWardrobe
	case errors.Is(err, e.ErrCalendarOutfitNotFound):
		return http.StatusNotFound, msgNoCalendarOutfit
	case errors.Is(err, e.ErrInvalidOutfitDate):
		return http.StatusBadRequest, e.ErrInvalidOutfitDate.Error()
	case errors.Is(err, e.ErrMissingOutfitImage):
		return http.StatusBadRequest, e.ErrMissingOutfitImage.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrTooManyImages):
		return http.StatusBadRequest, e.ErrTooManyImages.Error()
	case errors.Is(err, e.ErrNoImages):
		return http.StatusBadRequest, e.ErrNoImages.Error()
	case errors.Is(err, e.ErrInvalidCategoryGroup):
		return http.StatusBadRequest, e.ErrInvalidCategoryGroup.Error()
	case errors.Is(err, e.ErrEmptyQuery):
		return http.StatusBadRequest, e.ErrEmptyQuery.Error()
	case errors.Is(err, e.ErrEmptyPrompt):
		return http.StatusBadRequest, e.ErrEmptyPrompt.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgRequestTimeout
	case errors.Is(err, context.Canceled):
		return statusClientCanceled, msgRequestCanceled
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// roundScore округляет оценку до 4 знаков, чтобы в JSON не утекал шум float32.
func roundScore(score float32) float64 {
	f, _ := decimal.NewFromFloat32(score).Round(4).Float64()
	return f
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}
	return nil
}

func parseImages(files []*multipart.FileHeader, maxImageCount int) ([]usecase.GarmentImage, error) {
	const maxFileSize = 15 << 20

	if len(files) == 0 {
		return nil, e.ErrNoImages
	}
	if len(files) > maxImageCount {
		return nil, e.ErrTooManyImages
	}

	images := make([]usecase.GarmentImage, 0, len(files))
	for _, fh := range files {
		data, mimeType, err := readFile(fh, maxFileSize)
		if err != nil {
			return nil, err
		}
		images = append(images, *usecase.NewGarmentImage(data, mimeType, int64(len(data)), fh.Filename))
	}
	return images, nil
}

// readFile читает файл и определяет тип по содержимому, а не по заголовку клиента.
func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	if !infrastructure.IsSupportedImage(mimeType) {
		return nil, "", e.Wrap(fh.Filename, e.ErrUnsupportedMediaType)
	}
	return data, mimeType, nil
}
