package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Внутренние ошибки с векторами
	ErrEmptyVectors          = fmt.Errorf("empty vectors")
	ErrVectorEmbeddingEmpty  = fmt.Errorf("vector embedding is empty")
	ErrVectorDimension       = fmt.Errorf("vector dimension mismatch")
	ErrEmbeddingNotFound     = fmt.Errorf("embedding not found")
	ErrImageClassifyMismatch = fmt.Errorf("image classification mismatch")

	// 404 Not Found
	ErrGarmentNotFound        = fmt.Errorf("item not found")
	ErrCalendarOutfitNotFound = fmt.Errorf("no outfit found for this date")

	// 409/422: вещь есть, но её вектора нет в индексе
	ErrMissingEmbedding = fmt.Errorf("item embedding not found")

	// 503: векторный индекс, хранилище или ML-сервис недоступны
	ErrUpstreamUnavailable = fmt.Errorf("upstream service unavailable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrInvalidCategoryGroup = fmt.Errorf("invalid category group")
	ErrEmptyQuery           = fmt.Errorf("query is empty")
	ErrEmptyPrompt          = fmt.Errorf("prompt is empty")
	ErrEmptyWardrobe        = fmt.Errorf("wardrobe is empty")
	ErrInvalidOutfitDate    = fmt.Errorf("invalid outfit date, expected YYYY-MM-DD")
	ErrMissingOutfitImage   = fmt.Errorf("combined_image_url is required")

	// 401 Unauthorized
	ErrUnauthorized = fmt.Errorf("unauthorized")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
