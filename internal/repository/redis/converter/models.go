package converter

import "time"

// GarmentRedisModel - JSON-представление вещи в кэше.
type GarmentRedisModel struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	CategoryGroup string            `json:"category_group"`
	Category      string            `json:"category"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	ImageURL      string            `json:"image_url"`
	ImageKey      string            `json:"image_key"`
	CreatedAt     time.Time         `json:"created_at"`
}
