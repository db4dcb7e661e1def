package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/pricing"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/risk"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	eventmodels "github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
)

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type publishedEvent struct {
	Type     eventmodels.CatalogEventType
	EntityID int
	Numbers  []string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType eventmodels.CatalogEventType, entityID int, numbers []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, EntityID: entityID, Numbers: numbers})
	return p.err
}

type fakeArticleRepo struct {
	nextID   int
	articles map[int]*models.Article
	history  []*models.ArticleHistoryRecord
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{nextID: 1, articles: make(map[int]*models.Article)}
}

func (r *fakeArticleRepo) CreateArticle(_ context.Context, article *models.Article) error {
	for _, existing := range r.articles {
		for _, a := range existing.Details() {
			for _, b := range article.Details() {
				if a.Number == b.Number {
					return fmt.Errorf("number %s exists: %w", a.Number, utils.ErrValidation)
				}
			}
		}
	}
	article.ID = r.nextID
	r.nextID++
	copied := *article
	r.articles[article.ID] = &copied
	return nil
}

func (r *fakeArticleRepo) UpdateArticle(_ context.Context, article *models.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return utils.ErrNotFound
	}
	copied := *article
	r.articles[article.ID] = &copied
	return nil
}

func (r *fakeArticleRepo) GetArticle(_ context.Context, id int) (*models.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, nil
	}
	copied := *article
	return &copied, nil
}

func (r *fakeArticleRepo) ListArticles(_ context.Context, _ *models.ArticleFilter, offset, limit int) ([]*models.Article, int, error) {
	ids := make([]int, 0, len(r.articles))
	for id := range r.articles {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []*models.Article
	for i, id := range ids {
		if i < offset || (limit > 0 && len(out) >= limit) {
			continue
		}
		out = append(out, r.articles[id])
	}
	return out, len(ids), nil
}

func (r *fakeArticleRepo) DeleteArticle(_ context.Context, id int) error {
	delete(r.articles, id)
	return nil
}

func (r *fakeArticleRepo) ArticleNumbers(_ context.Context, id int) ([]string, error) {
	return numbersOf(r.articles[id]), nil
}

func (r *fakeArticleRepo) SaveHistoryRecord(_ context.Context, record *models.ArticleHistoryRecord) error {
	r.history = append(r.history, record)
	return nil
}

func (r *fakeArticleRepo) GetArticleHistory(_ context.Context, articleID, limit, offset int) ([]*models.ArticleHistoryRecord, error) {
	var out []*models.ArticleHistoryRecord
	for _, record := range r.history {
		if record.ArticleID == articleID {
			out = append(out, record)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	nextID     int
	categories map[int]*models.Category
	numbers    map[int][]string
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{nextID: 1, categories: make(map[int]*models.Category), numbers: make(map[int][]string)}
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, category *models.Category) error {
	if category.ParentID > 0 {
		if _, ok := r.categories[category.ParentID]; !ok {
			return fmt.Errorf("parent %d: %w", category.ParentID, utils.ErrValidation)
		}
	}
	category.ID = r.nextID
	r.nextID++
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) UpdateCategory(_ context.Context, category *models.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetCategory(_ context.Context, id int) (*models.Category, error) {
	return r.categories[id], nil
}

func (r *fakeCategoryRepo) ListCategories(_ context.Context, parentID *int, _, _ int) ([]*models.Category, int, error) {
	var out []*models.Category
	for _, c := range r.categories {
		if parentID == nil || c.ParentID == *parentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, id int) error {
	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, utils.ErrNotFound)
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) CategoryArticleNumbers(_ context.Context, id int) ([]string, error) {
	return r.numbers[id], nil
}

// fakeCatalog returns fresh copies on every call so cached and loaded
// products never share memory.
type fakeCatalog struct {
	products     map[string]func() *pricing.ProductRules
	loads        [][]string
	associations *models.ProductAssociations
	categories   []*models.Category
}

func (c *fakeCatalog) ListProducts(_ context.Context, numbers []string, _ *models.ShopContext) (map[string]*pricing.ProductRules, error) {
	c.loads = append(c.loads, append([]string(nil), numbers...))
	out := make(map[string]*pricing.ProductRules)
	for _, n := range numbers {
		if build, ok := c.products[n]; ok {
			out[n] = build()
		}
	}
	return out, nil
}

func (c *fakeCatalog) ProductAssociations(_ context.Context, _, _ int, _ *models.ShopContext) (*models.ProductAssociations, error) {
	if c.associations == nil {
		return &models.ProductAssociations{}, nil
	}
	return c.associations, nil
}

func (c *fakeCatalog) GetCategories(_ context.Context, _ []int) ([]*models.Category, error) {
	return c.categories, nil
}

type fakeRiskRepo struct {
	sets        []risk.RuleSet
	orders      []risk.Order
	saved       []risk.RuleSet
	ordersCalls int
	enriched    bool
}

func (r *fakeRiskRepo) RuleSets(context.Context, int) ([]risk.RuleSet, error) {
	return r.sets, nil
}

func (r *fakeRiskRepo) SaveRuleSets(_ context.Context, _ int, sets []risk.RuleSet) error {
	r.saved = sets
	return nil
}

func (r *fakeRiskRepo) CustomerOrders(context.Context, int) ([]risk.Order, error) {
	r.ordersCalls++
	return r.orders, nil
}

func (r *fakeRiskRepo) EnrichBasket(_ context.Context, items []risk.BasketItem) error {
	r.enriched = true
	for i := range items {
		items[i].CategoryIDs = []int{3, 5}
	}
	return nil
}

type fakeContextLoader struct {
	calls int
	err   error
}

func (l *fakeContextLoader) ShopContext(_ context.Context, shopID int, currencyISO, groupKey, fallbackKey string) (*models.ShopContext, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return &models.ShopContext{
		Shop:                  &models.Shop{ID: shopID},
		Currency:              &models.Currency{Currency: currencyISO, Factor: 1},
		CurrentCustomerGroup:  &models.CustomerGroup{Key: groupKey},
		FallbackCustomerGroup: &models.CustomerGroup{Key: fallbackKey},
	}, nil
}
