package models

import "time"

// CatalogEventType - тип изменения каталога.
type CatalogEventType string

const (
	ArticleCreated  CatalogEventType = "article_created"
	ArticleUpdated  CatalogEventType = "article_updated"
	ArticleDeleted  CatalogEventType = "article_deleted"
	CategoryCreated CatalogEventType = "category_created"
	CategoryUpdated CatalogEventType = "category_updated"
	CategoryDeleted CatalogEventType = "category_deleted"
	CacheFlushed    CatalogEventType = "cache_flushed"
)

// CatalogEvent публикуется после коммита записи через admin API. Numbers содержит
// номера всех затронутых вариантов, потребители удаляют их из кэша по одному.
type CatalogEvent struct {
	ID         string           `json:"id"`
	Type       CatalogEventType `json:"type"`
	EntityID   int              `json:"entity_id,omitempty"`
	Numbers    []string         `json:"numbers,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// IsArticleEvent сообщает, относится ли событие к товару.
func (e CatalogEvent) IsArticleEvent() bool {
	switch e.Type {
	case ArticleCreated, ArticleUpdated, ArticleDeleted:
		return true
	}
	return false
}
