package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
	"github.com/google/uuid"
)

// CatalogPublisher публикует события изменения каталога в один топик.
type CatalogPublisher struct {
	messaging interfaces.MessagingPort
	topic     string
	now       func() time.Time
}

func NewCatalogPublisher(messaging interfaces.MessagingPort, topic string) *CatalogPublisher {
	return &CatalogPublisher{messaging: messaging, topic: topic, now: time.Now}
}

// Publish использует id сущности как ключ, события одной сущности остаются упорядоченными.
func (p *CatalogPublisher) Publish(ctx context.Context, eventType models.CatalogEventType, entityID int, numbers []string) error {
	event := models.CatalogEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		EntityID:   entityID,
		Numbers:    numbers,
		OccurredAt: p.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog event: %w", err)
	}

	return p.messaging.PublishWithKey(ctx, p.topic, strconv.Itoa(entityID), payload)
}

// DecodeCatalogEvent разбирает сообщение, созданное CatalogPublisher.
func DecodeCatalogEvent(msg *interfaces.Message) (*models.CatalogEvent, error) {
	var event models.CatalogEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to decode catalog event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("failed to decode catalog event: missing type")
	}
	return &event, nil
}

// NopPublisher отбрасывает события. Используется, когда kafka выключена.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.CatalogEventType, int, []string) error {
	return nil
}
