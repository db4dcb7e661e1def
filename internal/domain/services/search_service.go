package services

import (
	"context"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/search"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
)

// NumberSearcher resolves a criteria to product numbers.
type NumberSearcher interface {
	Search(ctx context.Context, criteria *search.Criteria, shopCtx *models.ShopContext) (*search.ProductNumberSearchResult, error)
}

// SearchService runs a criteria through the gateway and hydrates the page.
type SearchService struct {
	gateway  NumberSearcher
	products *ListProductService
	logger   interfaces.LoggerPort
}

func NewSearchService(gateway NumberSearcher, products *ListProductService, logger interfaces.LoggerPort) *SearchService {
	return &SearchService{gateway: gateway, products: products, logger: logger}
}

// Search keeps the gateway order. TotalCount is the gateway count even when
// some products of the page could not be hydrated.
func (s *SearchService) Search(ctx context.Context, criteria *search.Criteria, shopCtx *models.ShopContext) (*search.ProductSearchResult, error) {
	start := time.Now()
	defer func() {
		searchDuration.Observe(time.Since(start).Seconds())
	}()

	numbers, err := s.gateway.Search(ctx, criteria, shopCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to search product numbers: %w", err)
	}

	products, err := s.products.GetList(ctx, numbers.Numbers(), shopCtx)
	if err != nil {
		return nil, err
	}

	if len(products) != len(numbers.Products) {
		s.logger.DebugWithContext(ctx, "search page contains products that could not be hydrated",
			interfaces.LogField{Key: "found", Value: len(numbers.Products)},
			interfaces.LogField{Key: "hydrated", Value: len(products)})
	}

	facets := numbers.Facets
	if facets == nil {
		facets = []search.FacetResult{}
	}

	return &search.ProductSearchResult{
		Products:   products,
		TotalCount: numbers.TotalCount,
		Facets:     facets,
	}, nil
}
