package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	eventmodels "github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/tx"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id int) (*models.Category, error)
	ListCategories(ctx context.Context, parentID *int, offset, limit int) ([]*models.Category, int, error)
	DeleteCategory(ctx context.Context, id int) error
	CategoryArticleNumbers(ctx context.Context, id int) ([]string, error)
}

type CategoryService struct {
	repository CategoryRepository
	txManager  tx.TxManager
	publisher  EventPublisher
	logger     interfaces.LoggerPort
}

func NewCategoryService(repository CategoryRepository, txManager tx.TxManager, publisher EventPublisher, logger interfaces.LoggerPort) *CategoryService {
	return &CategoryService{
		repository: repository,
		txManager:  txManager,
		publisher:  publisher,
		logger:     logger,
	}
}

func validateCategory(category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category payload is empty: %w", utils.ErrParameterMissing)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("name is required: %w", utils.ErrValidation)
	}
	if category.ParentID < 0 {
		return fmt.Errorf("parentId must not be negative: %w", utils.ErrValidation)
	}
	return nil
}

func (s *CategoryService) publish(ctx context.Context, eventType eventmodels.CatalogEventType, id int, numbers []string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, id, numbers); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish catalog event",
			interfaces.LogField{Key: "event", Value: string(eventType)},
			interfaces.LogField{Key: "entity_id", Value: id},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

func (s *CategoryService) Create(ctx context.Context, category *models.Category) (result *models.Category, err error) {
	defer func() { observeAdmin("category", OperationCreate, err) }()

	if err := validateCategory(category); err != nil {
		return nil, err
	}
	category.ID = 0

	if err := s.repository.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.publish(ctx, eventmodels.CategoryCreated, category.ID, nil)
	return category, nil
}

// Update replaces the category. Moving a category rewrites the paths of its subtree.
func (s *CategoryService) Update(ctx context.Context, id int, category *models.Category) (result *models.Category, err error) {
	defer func() { observeAdmin("category", OperationUpdate, err) }()

	if id <= 0 {
		return nil, utils.ErrInvalidCategoryID
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	var numbers []string
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.repository.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("category %d: %w", id, utils.ErrNotFound)
		}

		category.ID = id
		category.CreatedAt = existing.CreatedAt
		if err := s.repository.UpdateCategory(ctx, category); err != nil {
			return err
		}
		numbers, err = s.repository.CategoryArticleNumbers(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.publish(ctx, eventmodels.CategoryUpdated, id, numbers)
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id int) (*models.Category, error) {
	if id <= 0 {
		return nil, utils.ErrInvalidCategoryID
	}
	category, err := s.repository.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("category %d: %w", id, utils.ErrNotFound)
	}
	return category, nil
}

// List returns children of parentID when given, all categories otherwise.
func (s *CategoryService) List(ctx context.Context, parentID *int, offset, limit int) ([]*models.Category, int, error) {
	categories, total, err := s.repository.ListCategories(ctx, parentID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// Delete removes the category with its subtree.
func (s *CategoryService) Delete(ctx context.Context, id int) (err error) {
	defer func() { observeAdmin("category", "delete", err) }()

	if id <= 0 {
		return utils.ErrInvalidCategoryID
	}

	var numbers []string
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		if numbers, err = s.repository.CategoryArticleNumbers(ctx, id); err != nil {
			return err
		}
		return s.repository.DeleteCategory(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.publish(ctx, eventmodels.CategoryDeleted, id, numbers)
	return nil
}

// Batch mirrors ArticleService.Batch for categories.
func (s *CategoryService) Batch(ctx context.Context, categories []*models.Category) []BatchResult {
	results := make([]BatchResult, 0, len(categories))
	for _, category := range categories {
		if category == nil {
			results = append(results, BatchResult{Operation: OperationCreate, Message: "empty item"})
			continue
		}

		var (
			saved *models.Category
			err   error
			op    = OperationCreate
		)
		if category.ID > 0 {
			op = OperationUpdate
			saved, err = s.Update(ctx, category.ID, category)
		} else {
			saved, err = s.Create(ctx, category)
		}

		if err != nil {
			results = append(results, BatchResult{Operation: op, Message: err.Error()})
			continue
		}
		results = append(results, BatchResult{
			Success:   true,
			Operation: op,
			Data:      map[string]interface{}{"id": saved.ID},
		})
	}
	return results
}
