package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/media"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/api/handlers"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/legacy"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/risk"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/search"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/translation"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/security"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubArticles struct {
	articles  map[int]*models.Article
	nextID    int
	lastUser  string
	batchSize int
}

func (s *stubArticles) Create(_ context.Context, article *models.Article, userID string) (*models.Article, error) {
	if article.Name == "" {
		return nil, fmt.Errorf("name is required: %w", utils.ErrValidation)
	}
	s.nextID++
	article.ID = s.nextID
	s.articles[article.ID] = article
	s.lastUser = userID
	return article, nil
}

func (s *stubArticles) Update(_ context.Context, id int, article *models.Article, userID string) (*models.Article, error) {
	if _, ok := s.articles[id]; !ok {
		return nil, fmt.Errorf("article %d: %w", id, utils.ErrNotFound)
	}
	article.ID = id
	s.articles[id] = article
	s.lastUser = userID
	return article, nil
}

func (s *stubArticles) Get(_ context.Context, id int) (*models.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, utils.ErrNotFound)
	}
	return a, nil
}

func (s *stubArticles) List(_ context.Context, _ *models.ArticleFilter, _, _ int) ([]*models.Article, int, error) {
	var out []*models.Article
	for _, a := range s.articles {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (s *stubArticles) Delete(_ context.Context, id int, _ string) error {
	if _, ok := s.articles[id]; !ok {
		return fmt.Errorf("article %d: %w", id, utils.ErrNotFound)
	}
	delete(s.articles, id)
	return nil
}

func (s *stubArticles) Batch(_ context.Context, articles []*models.Article, _ string) []services.BatchResult {
	s.batchSize = len(articles)
	results := make([]services.BatchResult, 0, len(articles))
	for _, a := range articles {
		op := services.OperationCreate
		if a.ID > 0 {
			op = services.OperationUpdate
		}
		results = append(results, services.BatchResult{Success: true, Operation: op})
	}
	return results
}

func (s *stubArticles) History(_ context.Context, _, _, _ int) ([]*models.ArticleHistoryRecord, error) {
	return nil, nil
}

type stubCategories struct {
	categories map[int]*models.Category
}

func (s *stubCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	c.ID = len(s.categories) + 10
	s.categories[c.ID] = c
	return c, nil
}

func (s *stubCategories) Update(_ context.Context, id int, c *models.Category) (*models.Category, error) {
	c.ID = id
	s.categories[id] = c
	return c, nil
}

func (s *stubCategories) Get(_ context.Context, id int) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, utils.ErrNotFound)
	}
	return c, nil
}

func (s *stubCategories) List(_ context.Context, _ *int, _, _ int) ([]*models.Category, int, error) {
	return nil, 0, nil
}

func (s *stubCategories) Delete(_ context.Context, id int) error {
	delete(s.categories, id)
	return nil
}

func (s *stubCategories) Batch(_ context.Context, categories []*models.Category) []services.BatchResult {
	return nil
}

type stubRules struct {
	saved map[int][]risk.RuleSet
}

func (s *stubRules) RuleSets(_ context.Context, paymentID int) ([]risk.RuleSet, error) {
	return s.saved[paymentID], nil
}

func (s *stubRules) SaveRuleSets(_ context.Context, paymentID int, sets []risk.RuleSet) error {
	for _, set := range sets {
		if set.Rule1 == "" {
			return fmt.Errorf("rule1 is required: %w", utils.ErrValidation)
		}
	}
	s.saved[paymentID] = sets
	return nil
}

type stubTranslations struct {
	saved map[string]*translation.Translation
}

func translationID(objectType string, id, shopID int) string {
	return fmt.Sprintf("%s/%d/%d", objectType, id, shopID)
}

func (s *stubTranslations) Get(_ context.Context, objectType string, id, shopID int) (*translation.Translation, error) {
	t, ok := s.saved[translationID(objectType, id, shopID)]
	if !ok {
		return nil, fmt.Errorf("translation: %w", utils.ErrNotFound)
	}
	return t, nil
}

func (s *stubTranslations) Save(_ context.Context, t *translation.Translation) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.saved[translationID(t.Type, t.ID, t.ShopID)] = t
	return nil
}

func (s *stubTranslations) Delete(_ context.Context, objectType string, id, shopID int) error {
	key := translationID(objectType, id, shopID)
	if _, ok := s.saved[key]; !ok {
		return fmt.Errorf("translation: %w", utils.ErrNotFound)
	}
	delete(s.saved, key)
	return nil
}

type stubContexts struct {
	lastGroup string
}

func (s *stubContexts) Get(_ context.Context, shopID int, currencyISO, groupKey string) (*models.ShopContext, error) {
	s.lastGroup = groupKey
	return &models.ShopContext{
		Shop:                 &models.Shop{ID: 1, CategoryID: 3},
		Currency:             &models.Currency{ID: 1, Currency: "EUR", Factor: 1},
		CurrentCustomerGroup: &models.CustomerGroup{ID: 1, Key: "EK"},
	}, nil
}

type stubSearcher struct {
	criteria *search.Criteria
}

func (s *stubSearcher) Search(_ context.Context, criteria *search.Criteria, _ *models.ShopContext) (*search.ProductSearchResult, error) {
	s.criteria = criteria
	return &search.ProductSearchResult{
		Products:   []*models.ListProduct{{BaseProduct: models.BaseProduct{ID: 1, Number: "SW10001"}}},
		TotalCount: 1,
	}, nil
}

type stubProducts struct{}

func (stubProducts) Get(_ context.Context, number string, _ *models.ShopContext) (*models.ListProduct, error) {
	if number != "SW10001" {
		return nil, fmt.Errorf("product %s: %w", number, utils.ErrNotFound)
	}
	return &models.ListProduct{BaseProduct: models.BaseProduct{ID: 1, Number: number}}, nil
}

func (stubProducts) GetProduct(_ context.Context, number string, _ *models.ShopContext) (*models.Product, error) {
	return nil, fmt.Errorf("product %s: %w", number, utils.ErrNotFound)
}

type stubRisk struct{}

func (stubRisk) IsRisky(_ context.Context, _ int, in *risk.Input) (bool, error) {
	return in.Amount > 1000, nil
}

type testServer struct {
	handler  http.Handler
	jwt      *security.JWTManager
	articles *stubArticles
	rules    *stubRules
	texts    *stubTranslations
	searcher *stubSearcher
	contexts *stubContexts
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.NewNop()
	jwtManager, err := security.NewJWTManager("test-secret", time.Hour, "storefront")
	require.NoError(t, err)

	mediaService := media.NewMemoryService("https://cdn.example.com/")
	require.NoError(t, mediaService.Write(context.Background(), "media/image/shirt.jpg", []byte("jpeg")))

	ts := &testServer{
		jwt:      jwtManager,
		articles: &stubArticles{articles: map[int]*models.Article{}},
		rules:    &stubRules{saved: map[int][]risk.RuleSet{}},
		texts:    &stubTranslations{saved: map[string]*translation.Translation{}},
		searcher: &stubSearcher{},
		contexts: &stubContexts{},
	}
	categories := &stubCategories{categories: map[int]*models.Category{3: {ID: 3, Name: "Root"}}}
	converter := legacy.NewConverter(legacy.Config{MaxPurchase: 100}, mediaService)

	ts.handler = SetupRouter(Handlers{
		Articles:     handlers.NewArticleHandler(ts.articles, log),
		Categories:   handlers.NewCategoryHandler(categories, log),
		RiskRules:    handlers.NewRiskRuleHandler(ts.rules, log),
		Translations: handlers.NewTranslationHandler(ts.texts, log),
		Storefront:   handlers.NewStorefrontHandler(ts.contexts, ts.searcher, stubProducts{}, categories, stubRisk{}, converter, log),
		Media:        handlers.NewMediaHandler(mediaService, log),
	}, jwtManager, log, Options{AdminRole: "admin"})
	return ts
}

func (ts *testServer) token(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := ts.jwt.Generate("u-1", "jdoe", roles)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSwaggerDoc(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Storefront Service API")
}

func TestAdminRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/articles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/articles", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRequiresRole(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/articles", ts.token(t, "viewer"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/articles", ts.token(t, "admin"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["total"])
}

func TestArticleLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "admin")

	rec := ts.do(t, http.MethodPost, "/api/v1/articles", token, map[string]interface{}{
		"name":       "Shirt",
		"taxId":      1,
		"supplierId": 2,
		"mainDetail": map[string]interface{}{"number": "SW10001"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/v1/articles/1", rec.Header().Get("Location"))
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "/api/v1/articles/1", data["location"])
	assert.Equal(t, "jdoe", ts.articles.lastUser)

	rec = ts.do(t, http.MethodGet, "/api/v1/articles/1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/articles/1", token, map[string]interface{}{"name": "Shirt v2"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Shirt v2", ts.articles.articles[1].Name)

	rec = ts.do(t, http.MethodDelete, "/api/v1/articles/1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/articles/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestArticleErrors(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "admin")

	tests := []struct {
		name   string
		method string
		target string
		body   interface{}
		want   int
	}{
		{name: "invalid id", method: http.MethodGet, target: "/api/v1/articles/abc", want: http.StatusBadRequest},
		{name: "negative id", method: http.MethodGet, target: "/api/v1/articles/-4", want: http.StatusBadRequest},
		{name: "unknown id", method: http.MethodGet, target: "/api/v1/articles/99", want: http.StatusNotFound},
		{name: "validation", method: http.MethodPost, target: "/api/v1/articles", body: map[string]interface{}{}, want: http.StatusBadRequest},
		{name: "update unknown", method: http.MethodPut, target: "/api/v1/articles/99", body: map[string]interface{}{"name": "x"}, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.target, token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestArticleMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+ts.token(t, "admin"))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticleBatchLabels(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/v1/articles", ts.token(t, "admin"), []map[string]interface{}{
		{"name": "new"},
		{"id": 5, "name": "existing"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, ts.articles.batchSize)

	results := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, "create", results[0].(map[string]interface{})["operation"])
	assert.Equal(t, "update", results[1].(map[string]interface{})["operation"])
}

func TestCategoryCreateLocation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/categories/", ts.token(t, "admin"), map[string]interface{}{"name": "Shoes", "parentId": 3})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/v1/categories/11", rec.Header().Get("Location"))
}

func TestRiskRules(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "admin")

	rec := ts.do(t, http.MethodPut, "/api/v1/payments/4/rules", token, []risk.RuleSet{{Rule1: "ORDERVALUEMORE", Value1: "500"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, ts.rules.saved[4], 1)

	rec = ts.do(t, http.MethodPut, "/api/v1/payments/4/rules", token, []risk.RuleSet{{Value1: "500"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/payments/4/rules", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["total"])
}

func TestTranslations(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "admin")
	target := "/api/v1/translations/article/7/2"

	rec := ts.do(t, http.MethodPut, target, "", map[string]string{"name": "Summer shirt"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPut, target, token, map[string]string{"name": "Summer shirt"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Summer shirt", ts.texts.saved["article/7/2"].Fields["name"])

	rec = ts.do(t, http.MethodGet, target, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["shopId"])

	rec = ts.do(t, http.MethodPut, "/api/v1/translations/unit/1/2", token, map[string]string{"keywords": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/translations/article/x/2", token, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, target, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodDelete, target, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorefrontListing(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/listing?manufacturer=2%7C5&sort=price_desc&p=2&n=10&min=5,5", nil)
	req.Header.Set("X-Customer-Group", "H")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "H", ts.contexts.lastGroup)

	criteria := ts.searcher.criteria
	require.NotNil(t, criteria)
	assert.Equal(t, 10, criteria.GetOffset())
	assert.Equal(t, 10, criteria.GetLimit())
	assert.True(t, criteria.HasBaseCondition(search.ConditionCategory))
	assert.True(t, criteria.HasBaseCondition(search.ConditionCustomerGroup))
	assert.True(t, criteria.HasUserCondition(search.ConditionManufacturer))
	assert.True(t, criteria.HasUserCondition(search.ConditionPrice))
	assert.True(t, criteria.HasFacet(search.FacetPrice))

	sorting, ok := criteria.GetSorting(search.SortingPrice)
	require.True(t, ok)
	assert.Equal(t, search.PriceSorting{Direction: search.SortDesc}, sorting)

	category, _ := criteria.GetBaseCondition(search.ConditionCategory)
	assert.Equal(t, search.CategoryCondition{CategoryIDs: []int{3}}, category)
}

func TestStorefrontLegacyListing(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/storefront/listing/legacy?p=3&n=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Articles      []map[string]interface{} `json:"sArticles"`
			NumberArticle int                      `json:"sNumberArticles"`
			Page          int                      `json:"sPage"`
			PerPage       int                      `json:"sPerPage"`
			NumberPages   int                      `json:"sNumberPages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Articles, 1)
	assert.Equal(t, "SW10001", body.Data.Articles[0]["ordernumber"])
	assert.Equal(t, "?sViewport=detail&sArticle=1", body.Data.Articles[0]["linkDetails"])
	assert.Equal(t, 1, body.Data.NumberArticle)
	assert.Equal(t, 3, body.Data.Page)
	assert.Equal(t, 5, body.Data.PerPage)
	assert.Equal(t, 1, body.Data.NumberPages)

	assert.Equal(t, 10, ts.searcher.criteria.GetOffset())
}

func TestStorefrontListingRejectsInput(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{
		"/api/v1/storefront/listing?sort=random",
		"/api/v1/storefront/listing?category=abc",
		"/api/v1/storefront/listing?max=-1",
	} {
		rec := ts.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestStorefrontProduct(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/storefront/products/SW10001", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/storefront/products/SW404", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/storefront/products/SW404/legacy", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorefrontLegacyCategory(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/storefront/categories/3/legacy", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "Root", data["name"])
	assert.Equal(t, true, data["hideFilter"])
}

func TestStorefrontRisk(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/storefront/payments/4/risk", "", map[string]interface{}{"amount": 2500})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, true, data["risky"])

	rec = ts.do(t, http.MethodPost, "/api/v1/storefront/payments/0/risk", "", map[string]interface{}{"amount": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMediaResolve(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/storefront/media/media/image/shirt.jpg", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "media/image/shirt.jpg", data["path"])
	assert.Equal(t, float64(4), data["size"])
	assert.Contains(t, data["url"], "https://cdn.example.com/")

	rec = ts.do(t, http.MethodGet, "/api/v1/storefront/media/media/image/missing.jpg", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
