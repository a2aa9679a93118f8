package converter

import "time"

// GarmentModel представляет запись таблицы wardrobe_items в PostgreSQL.
type GarmentModel struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	CategoryGroup string    `db:"category_group"`
	Category      string    `db:"category"`
	Attributes    []byte    `db:"attributes"` // jsonb
	ImageURL      string    `db:"image_url"`
	ImageKey      string    `db:"image_key"`
	CreatedAt     time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

// CalendarOutfitModel представляет запись таблицы calendar_outfits в PostgreSQL.
type CalendarOutfitModel struct {
	ID                 string    `db:"id"`
	UserID             string    `db:"user_id"`
	OutfitDate         time.Time `db:"outfit_date"`
	CombinedImageURL   string    `db:"combined_image_url"`
	Prompt             *string   `db:"prompt"`
	Temperature        *float64  `db:"temperature"`
	SelectedCategories []byte    `db:"selected_categories"` // jsonb
	Items              []byte    `db:"items"`               // jsonb
	CreatedAt          time.Time `db:"created_at"`
}

// CalendarOutfitItemModel - элемент массива items в jsonb.
type CalendarOutfitItemModel struct {
	ID            string `json:"id"`
	ImageURL      string `json:"image_url"`
	CategoryGroup string `json:"categoryGroup,omitempty"`
	Category      string `json:"category,omitempty"`
}
