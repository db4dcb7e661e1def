package services

import (
	"context"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/translation"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	eventmodels "github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
)

type TranslationRepository interface {
	GetTranslation(ctx context.Context, objectType string, id, shopID int) (*translation.Translation, error)
	SaveTranslation(ctx context.Context, t *translation.Translation) error
	DeleteTranslation(ctx context.Context, objectType string, id, shopID int) error
	ArticleNumbers(ctx context.Context, articleID int) ([]string, error)
}

// TranslationService maintains the per shop texts of catalog objects.
type TranslationService struct {
	repository TranslationRepository
	publisher  EventPublisher
	logger     interfaces.LoggerPort
}

func NewTranslationService(repository TranslationRepository, publisher EventPublisher, logger interfaces.LoggerPort) *TranslationService {
	return &TranslationService{repository: repository, publisher: publisher, logger: logger}
}

func (s *TranslationService) Get(ctx context.Context, objectType string, id, shopID int) (*translation.Translation, error) {
	if err := translation.ValidateKey(objectType, id, shopID); err != nil {
		return nil, err
	}
	return s.repository.GetTranslation(ctx, objectType, id, shopID)
}

func (s *TranslationService) Save(ctx context.Context, t *translation.Translation) (err error) {
	defer func() { observeAdmin("translation", "save", err) }()

	if t == nil {
		return fmt.Errorf("translation payload is empty: %w", utils.ErrParameterMissing)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.repository.SaveTranslation(ctx, t); err != nil {
		return fmt.Errorf("failed to save translation: %w", err)
	}
	s.evict(ctx, t.Type, t.ID)
	return nil
}

func (s *TranslationService) Delete(ctx context.Context, objectType string, id, shopID int) (err error) {
	defer func() { observeAdmin("translation", "delete", err) }()

	if err := translation.ValidateKey(objectType, id, shopID); err != nil {
		return err
	}
	if err := s.repository.DeleteTranslation(ctx, objectType, id, shopID); err != nil {
		return fmt.Errorf("failed to delete translation: %w", err)
	}
	s.evict(ctx, objectType, id)
	return nil
}

// evict drops the variants of a translated article. Other objects are shared
// by many products, so every cached product goes.
func (s *TranslationService) evict(ctx context.Context, objectType string, id int) {
	if s.publisher == nil {
		return
	}

	eventType := eventmodels.CacheFlushed
	var numbers []string
	if objectType == translation.TypeArticle {
		var err error
		if numbers, err = s.repository.ArticleNumbers(ctx, id); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to load article numbers, flushing caches",
				interfaces.LogField{Key: "article_id", Value: id},
				interfaces.LogField{Key: "error", Value: err.Error()})
		} else {
			eventType = eventmodels.ArticleUpdated
		}
	}

	if err := s.publisher.Publish(ctx, eventType, id, numbers); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish catalog event",
			interfaces.LogField{Key: "event", Value: string(eventType)},
			interfaces.LogField{Key: "entity_id", Value: id},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}
