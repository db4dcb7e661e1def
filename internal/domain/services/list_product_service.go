package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/pricing"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
)

const listProductCachePrefix = "list_product:"

// CatalogReader loads storefront read models.
type CatalogReader interface {
	ListProducts(ctx context.Context, numbers []string, shopCtx *models.ShopContext) (map[string]*pricing.ProductRules, error)
	ProductAssociations(ctx context.Context, articleID, variantID int, shopCtx *models.ShopContext) (*models.ProductAssociations, error)
	GetCategories(ctx context.Context, ids []int) ([]*models.Category, error)
}

// MarketingConfig decides the marketing flags of list products.
type MarketingConfig struct {
	MarkAsNewDays  int
	TopSellerSales int
}

// ListProductService hydrates and prices list products, backed by a cache of
// priced products per shop context.
type ListProductService struct {
	catalog   CatalogReader
	pricing   *pricing.Service
	cache     interfaces.CachePort
	ttl       time.Duration
	marketing MarketingConfig
	logger    interfaces.LoggerPort
	now       func() time.Time
}

func NewListProductService(
	catalog CatalogReader,
	pricingService *pricing.Service,
	cache interfaces.CachePort,
	ttl time.Duration,
	marketing MarketingConfig,
	logger interfaces.LoggerPort,
) *ListProductService {
	return &ListProductService{
		catalog:   catalog,
		pricing:   pricingService,
		cache:     cache,
		ttl:       ttl,
		marketing: marketing,
		logger:    logger,
		now:       time.Now,
	}
}

func listProductKey(shopCtx *models.ShopContext, number string) string {
	return listProductCachePrefix + shopCtx.CacheKey() + ":" + number
}

// GetList returns the priced products for numbers in the given order. Numbers
// that are unknown, blocked for the customer group or without price are skipped.
func (s *ListProductService) GetList(ctx context.Context, numbers []string, shopCtx *models.ShopContext) ([]*models.ListProduct, error) {
	if len(numbers) == 0 {
		return []*models.ListProduct{}, nil
	}

	found := make(map[string]*models.ListProduct, len(numbers))
	missing := numbers

	if s.cache != nil {
		keys := make([]string, 0, len(numbers))
		for _, number := range numbers {
			keys = append(keys, listProductKey(shopCtx, number))
		}

		cached, err := s.cache.GetMulti(ctx, keys)
		if err != nil {
			s.logger.WarnWithContext(ctx, "list product cache unavailable", interfaces.LogField{Key: "error", Value: err.Error()})
		}

		missing = make([]string, 0, len(numbers))
		for i, number := range numbers {
			data, ok := cached[keys[i]]
			if !ok {
				missing = append(missing, number)
				continue
			}
			var product models.ListProduct
			if err := json.Unmarshal(data, &product); err != nil {
				missing = append(missing, number)
				continue
			}
			found[number] = &product
		}
	}

	if len(missing) > 0 {
		loaded, err := s.load(ctx, missing, shopCtx)
		if err != nil {
			return nil, err
		}
		for number, product := range loaded {
			found[number] = product
		}
	}

	result := make([]*models.ListProduct, 0, len(numbers))
	for _, number := range numbers {
		if product, ok := found[number]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

func (s *ListProductService) load(ctx context.Context, numbers []string, shopCtx *models.ShopContext) (map[string]*models.ListProduct, error) {
	hydrated, err := s.catalog.ListProducts(ctx, numbers, shopCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list products: %w", err)
	}

	result := make(map[string]*models.ListProduct, len(hydrated))
	for number, data := range hydrated {
		product := data.Product
		if isBlocked(product, shopCtx) {
			continue
		}

		if err := s.pricing.Apply(product, data.Variants, shopCtx); err != nil {
			if errors.Is(err, pricing.ErrNoPrice) {
				s.logger.WarnWithContext(ctx, "product has no price for customer group",
					interfaces.LogField{Key: "number", Value: number})
				continue
			}
			return nil, fmt.Errorf("failed to calculate prices for %s: %w", number, err)
		}
		product.Marketing = s.marketingFlags(product)
		result[number] = product

		if s.cache != nil {
			payload, err := json.Marshal(product)
			if err != nil {
				return nil, fmt.Errorf("failed to encode list product: %w", err)
			}
			if err := s.cache.Set(ctx, listProductKey(shopCtx, number), payload, s.ttl); err != nil {
				s.logger.WarnWithContext(ctx, "failed to cache list product",
					interfaces.LogField{Key: "number", Value: number},
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}
	}
	return result, nil
}

func isBlocked(product *models.ListProduct, shopCtx *models.ShopContext) bool {
	if shopCtx == nil || shopCtx.CurrentCustomerGroup == nil {
		return false
	}
	for _, id := range product.BlockedCustomerGroups {
		if id == shopCtx.CurrentCustomerGroup.ID {
			return true
		}
	}
	return false
}

func (s *ListProductService) marketingFlags(product *models.ListProduct) *models.Marketing {
	now := s.now()
	m := &models.Marketing{}
	if product.CreatedAt != nil && s.marketing.MarkAsNewDays > 0 {
		m.IsNew = product.CreatedAt.After(now.AddDate(0, 0, -s.marketing.MarkAsNewDays))
	}
	if product.ReleaseDate != nil {
		m.ComingSoon = product.ReleaseDate.After(now)
	}
	if s.marketing.TopSellerSales > 0 {
		m.IsTopSeller = product.Sales >= s.marketing.TopSellerSales
	}
	return m
}

// Get returns one list product or utils.ErrNotFound.
func (s *ListProductService) Get(ctx context.Context, number string, shopCtx *models.ShopContext) (*models.ListProduct, error) {
	products, err := s.GetList(ctx, []string{number}, shopCtx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product %s: %w", number, utils.ErrNotFound)
	}
	return products[0], nil
}

// GetProduct loads the detail page model of a variant.
func (s *ListProductService) GetProduct(ctx context.Context, number string, shopCtx *models.ShopContext) (*models.Product, error) {
	listProduct, err := s.Get(ctx, number, shopCtx)
	if err != nil {
		return nil, err
	}

	assoc, err := s.catalog.ProductAssociations(ctx, listProduct.ID, listProduct.VariantID, shopCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product associations: %w", err)
	}

	product := &models.Product{
		ListProduct:           *listProduct,
		Media:                 assoc.Media,
		Votes:                 assoc.Votes,
		Downloads:             assoc.Downloads,
		Links:                 assoc.Links,
		RelatedProductStreams: assoc.RelatedProductStreams,
		PropertySet:           assoc.PropertySet,
		ConfiguratorSet:       assoc.ConfiguratorSet,
	}

	if product.RelatedProducts, err = s.GetList(ctx, assoc.RelatedNumbers, shopCtx); err != nil {
		return nil, err
	}
	if product.SimilarProducts, err = s.GetList(ctx, assoc.SimilarNumbers, shopCtx); err != nil {
		return nil, err
	}
	if len(assoc.CategoryIDs) > 0 {
		if product.Categories, err = s.catalog.GetCategories(ctx, assoc.CategoryIDs); err != nil {
			return nil, fmt.Errorf("failed to load product categories: %w", err)
		}
	}

	return product, nil
}

// Invalidate drops the cached products of numbers in every shop context.
func (s *ListProductService) Invalidate(ctx context.Context, numbers []string) error {
	if s.cache == nil {
		return nil
	}
	for _, number := range numbers {
		if err := s.cache.DeleteByPattern(ctx, listProductCachePrefix+"*:"+utils.EscapePattern(number)); err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", number, err)
		}
	}
	return nil
}

// Flush drops all cached list products.
func (s *ListProductService) Flush(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeleteByPattern(ctx, listProductCachePrefix+"*"); err != nil {
		return fmt.Errorf("failed to flush list product cache: %w", err)
	}
	return nil
}
