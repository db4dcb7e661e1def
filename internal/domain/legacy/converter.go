package legacy

import (
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
)

// Config holds the shop settings the converter depends on.
type Config struct {
	BaseFile                              string
	MaxPurchase                           int
	CalculateCheapestPriceWithMinPurchase bool
}

// URLResolver resolves media paths to public URLs.
type URLResolver interface {
	GetURL(path string) (string, bool)
}

// MediaFilter may rewrite a converted media array before it is returned.
type MediaFilter func(data map[string]interface{}, media *models.Media) map[string]interface{}

type Option func(*Converter)

func WithMediaFilter(filter MediaFilter) Option {
	return func(c *Converter) {
		c.mediaFilter = filter
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// Converter flattens storefront structs into the array shapes used by legacy
// templates and plugins.
type Converter struct {
	config      Config
	media       URLResolver
	mediaFilter MediaFilter
	now         func() time.Time
}

func NewConverter(config Config, media URLResolver, opts ...Option) *Converter {
	c := &Converter{
		config: config,
		media:  media,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Converter) mediaURL(path string) interface{} {
	if c.media == nil {
		return path
	}
	if url, ok := c.media.GetURL(path); ok {
		return url
	}
	return nil
}

// cheapestPrice picks the price shown in listings.
func (c *Converter) cheapestPrice(product *models.ListProduct) *models.Price {
	if c.config.CalculateCheapestPriceWithMinPurchase {
		return product.CheapestPrice
	}
	return product.CheapestUnitPrice
}

func attributesToArray(attributes models.Attributes) map[string]interface{} {
	out := make(map[string]interface{}, len(attributes))
	for name, attr := range attributes {
		out[name] = map[string]interface{}(attr.Clone())
	}
	return out
}

func coreAttribute(attributes models.Attributes) map[string]interface{} {
	if !attributes.Has("core") {
		return map[string]interface{}{}
	}
	return map[string]interface{}(attributes.Get("core").Clone())
}
