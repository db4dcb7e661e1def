package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	eventmodels "github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/tx"
	"github.com/go-playground/validator/v10"
)

// ArticleRepository persists the admin article model.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article *models.Article) error
	UpdateArticle(ctx context.Context, article *models.Article) error
	GetArticle(ctx context.Context, id int) (*models.Article, error)
	ListArticles(ctx context.Context, filter *models.ArticleFilter, offset, limit int) ([]*models.Article, int, error)
	DeleteArticle(ctx context.Context, id int) error
	ArticleNumbers(ctx context.Context, articleID int) ([]string, error)
	SaveHistoryRecord(ctx context.Context, record *models.ArticleHistoryRecord) error
	GetArticleHistory(ctx context.Context, articleID, limit, offset int) ([]*models.ArticleHistoryRecord, error)
}

// EventPublisher announces catalog changes.
type EventPublisher interface {
	Publish(ctx context.Context, eventType eventmodels.CatalogEventType, entityID int, numbers []string) error
}

const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

// BatchResult is the outcome of one item of a batch request.
type BatchResult struct {
	Success   bool        `json:"success"`
	Operation string      `json:"operation"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
}

type ArticleService struct {
	repository ArticleRepository
	txManager  tx.TxManager
	publisher  EventPublisher
	validate   *validator.Validate
	logger     interfaces.LoggerPort
}

func NewArticleService(repository ArticleRepository, txManager tx.TxManager, publisher EventPublisher, logger interfaces.LoggerPort) *ArticleService {
	return &ArticleService{
		repository: repository,
		txManager:  txManager,
		publisher:  publisher,
		validate:   validator.New(),
		logger:     logger,
	}
}

func (s *ArticleService) validateArticle(article *models.Article) error {
	if article == nil {
		return fmt.Errorf("article payload is empty: %w", utils.ErrParameterMissing)
	}
	if err := s.validate.Struct(article); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), utils.ErrValidation)
	}

	seen := make(map[string]bool)
	for _, detail := range article.Details() {
		if seen[detail.Number] {
			return fmt.Errorf("number %s is used twice: %w", detail.Number, utils.ErrValidation)
		}
		seen[detail.Number] = true
		if err := ValidatePrices(detail.Prices); err != nil {
			return fmt.Errorf("variant %s: %w", detail.Number, err)
		}
	}
	return nil
}

// ValidatePrices checks that the bands of each customer group start at 1,
// follow each other without gap or overlap, and only the last one is open.
func ValidatePrices(prices []models.ArticlePrice) error {
	byGroup := make(map[string][]models.ArticlePrice)
	for _, p := range prices {
		byGroup[p.CustomerGroupKey] = append(byGroup[p.CustomerGroupKey], p)
	}

	for key, bands := range byGroup {
		sort.SliceStable(bands, func(i, j int) bool { return bands[i].From < bands[j].From })
		if bands[0].From != 1 {
			return fmt.Errorf("prices of %s must start at quantity 1: %w", key, utils.ErrValidation)
		}
		for i, band := range bands {
			last := i == len(bands)-1
			if band.To.Value == nil {
				if !last {
					return fmt.Errorf("only the last price of %s may be open-ended: %w", key, utils.ErrValidation)
				}
				continue
			}
			if *band.To.Value < band.From {
				return fmt.Errorf("price band %d-%d of %s is empty: %w", band.From, *band.To.Value, key, utils.ErrValidation)
			}
			if !last && bands[i+1].From != *band.To.Value+1 {
				return fmt.Errorf("price bands of %s must be contiguous: %w", key, utils.ErrValidation)
			}
		}
	}
	return nil
}

func (s *ArticleService) publish(ctx context.Context, eventType eventmodels.CatalogEventType, id int, numbers []string) {
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

// Create persists a new article and records its history.
func (s *ArticleService) Create(ctx context.Context, article *models.Article, userID string) (result *models.Article, err error) {
	defer func() { observeAdmin("article", OperationCreate, err) }()

	if err := s.validateArticle(article); err != nil {
		return nil, err
	}
	article.ID = 0

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.repository.CreateArticle(ctx, article); err != nil {
			return err
		}
		return s.repository.SaveHistoryRecord(ctx, &models.ArticleHistoryRecord{
			ArticleID:  article.ID,
			ChangeType: models.ChangeTypeCreate,
			After:      article,
			ChangedBy:  userID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.publish(ctx, eventmodels.ArticleCreated, article.ID, numbersOf(article))
	return article, nil
}

// Update replaces the article with id. Returns utils.ErrNotFound for an unknown id.
func (s *ArticleService) Update(ctx context.Context, id int, article *models.Article, userID string) (result *models.Article, err error) {
	defer func() { observeAdmin("article", OperationUpdate, err) }()

	if id <= 0 {
		return nil, utils.ErrInvalidArticleID
	}
	if err := s.validateArticle(article); err != nil {
		return nil, err
	}

	var before *models.Article
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.repository.GetArticle(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("article %d: %w", id, utils.ErrNotFound)
		}
		before = existing

		article.ID = id
		article.CreatedAt = existing.CreatedAt
		if err := s.repository.UpdateArticle(ctx, article); err != nil {
			return err
		}
		return s.repository.SaveHistoryRecord(ctx, &models.ArticleHistoryRecord{
			ArticleID:  id,
			ChangeType: models.ChangeTypeUpdate,
			Before:     existing,
			After:      article,
			ChangedBy:  userID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	// removed variants must leave the caches too
	s.publish(ctx, eventmodels.ArticleUpdated, id, mergeNumbers(numbersOf(before), numbersOf(article)))
	return article, nil
}

// Get returns utils.ErrNotFound for an unknown id.
func (s *ArticleService) Get(ctx context.Context, id int) (*models.Article, error) {
	if id <= 0 {
		return nil, utils.ErrInvalidArticleID
	}
	article, err := s.repository.GetArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil {
		return nil, fmt.Errorf("article %d: %w", id, utils.ErrNotFound)
	}
	return article, nil
}

func (s *ArticleService) List(ctx context.Context, filter *models.ArticleFilter, offset, limit int) ([]*models.Article, int, error) {
	articles, total, err := s.repository.ListArticles(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, total, nil
}

func (s *ArticleService) Delete(ctx context.Context, id int, userID string) (err error) {
	defer func() { observeAdmin("article", "delete", err) }()

	if id <= 0 {
		return utils.ErrInvalidArticleID
	}

	var numbers []string
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.repository.GetArticle(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("article %d: %w", id, utils.ErrNotFound)
		}
		if numbers, err = s.repository.ArticleNumbers(ctx, id); err != nil {
			return err
		}

		if err := s.repository.DeleteArticle(ctx, id); err != nil {
			return err
		}
		return s.repository.SaveHistoryRecord(ctx, &models.ArticleHistoryRecord{
			ArticleID:  id,
			ChangeType: models.ChangeTypeDelete,
			Before:     existing,
			ChangedBy:  userID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	s.publish(ctx, eventmodels.ArticleDeleted, id, numbers)
	return nil
}

// Batch creates items without id and updates the others. Every item gets its
// own result; a failing item does not stop the batch.
func (s *ArticleService) Batch(ctx context.Context, articles []*models.Article, userID string) []BatchResult {
	results := make([]BatchResult, 0, len(articles))
	for _, article := range articles {
		if article == nil {
			results = append(results, BatchResult{Operation: OperationCreate, Message: "empty item"})
			continue
		}

		var (
			saved *models.Article
			err   error
			op    = OperationCreate
		)
		if article.ID > 0 {
			op = OperationUpdate
			saved, err = s.Update(ctx, article.ID, article, userID)
		} else {
			saved, err = s.Create(ctx, article, userID)
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

func (s *ArticleService) History(ctx context.Context, id, limit, offset int) ([]*models.ArticleHistoryRecord, error) {
	if id <= 0 {
		return nil, utils.ErrInvalidArticleID
	}
	records, err := s.repository.GetArticleHistory(ctx, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get article history: %w", err)
	}
	return records, nil
}

func numbersOf(article *models.Article) []string {
	if article == nil {
		return nil
	}
	details := article.Details()
	numbers := make([]string, 0, len(details))
	for _, d := range details {
		numbers = append(numbers, d.Number)
	}
	return numbers
}

func mergeNumbers(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// IsClientError reports whether err is caused by the request payload.
func IsClientError(err error) bool {
	return errors.Is(err, utils.ErrValidation) ||
		errors.Is(err, utils.ErrParameterMissing) ||
		errors.Is(err, utils.ErrInvalidArticleID) ||
		errors.Is(err, utils.ErrInvalidCategoryID)
}
