package usecase

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	GarmentCreated OutboxEventType = "garment.created"
	GarmentDeleted OutboxEventType = "garment.deleted"
)

// OutboxEvent - событие, которое воркер опубликует в Kafka после коммита.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string // id вещи, он же ключ сообщения
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// GarmentEventPayload - тело сообщения о вещи.
type GarmentEventPayload struct {
	EventID       string            `json:"event_id"`
	EventType     OutboxEventType   `json:"event_type"`
	OccurredAt    time.Time         `json:"occurred_at"`
	ItemID        string            `json:"item_id"`
	UserID        string            `json:"user_id"`
	CategoryGroup string            `json:"category_group"`
	Category      string            `json:"category"`
	ImageURL      string            `json:"image_url,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// NewGarmentEvent собирает outbox-событие по вещи.
func NewGarmentEvent(eventType OutboxEventType, g *domain.Garment) (*OutboxEvent, error) {
	now := time.Now().UTC()
	eventID := uuid.NewString()

	payload, err := json.Marshal(GarmentEventPayload{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    now,
		ItemID:        g.ID,
		UserID:        g.OwnerID,
		CategoryGroup: string(g.CategoryGroup),
		Category:      g.Category,
		ImageURL:      g.ImageURL,
		Attributes:    g.Attributes,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: g.ID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   now,
	}, nil
}
