package legacy

import (
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type urlResolver struct{}

func (urlResolver) GetURL(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	return "http://shop.test/" + path, true
}

func newTestConverter(opts ...Option) *Converter {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	opts = append(opts, WithClock(func() time.Time { return fixed }))
	return NewConverter(Config{BaseFile: "shop.php", MaxPurchase: 100}, urlResolver{}, opts...)
}

func price(from int, to *int, amount, pseudo float64) *models.Price {
	return &models.Price{
		From:                  from,
		To:                    to,
		CalculatedPrice:       amount,
		CalculatedPseudoPrice: pseudo,
		CustomerGroup:         &models.CustomerGroup{Key: "EK"},
		Unit:                  &models.Unit{MinPurchase: 1, PurchaseUnit: 1},
	}
}

func graduatedProduct() *models.ListProduct {
	first := price(1, models.IntPtr(20), 500, 0)
	second := price(21, nil, 400, 0)

	return &models.ListProduct{
		BaseProduct:       models.BaseProduct{ID: 7, VariantID: 70, Number: "SW10007"},
		Name:              "Graduated",
		Tax:               &models.Tax{ID: 1, Tax: 19},
		Prices:            []*models.Price{first, second},
		CheapestPrice:     second,
		CheapestUnitPrice: second,
		Manufacturer:      &models.Manufacturer{ID: 3, Name: "Acme", CoverFile: "media/image/acme.png"},
	}
}

func TestConvertListProductStruct_GraduatedPrices(t *testing.T) {
	data := newTestConverter().ConvertListProductStruct(graduatedProduct())

	assert.Equal(t, "400,00", data["priceStartingFrom"])
	assert.Equal(t, "400,00", data["price"])
	assert.Equal(t, 400.0, data["price_numeric"])
	assert.Equal(t, "EK", data["pricegroup"])
	assert.Equal(t, false, data["has_pseudoprice"])
	assert.NotContains(t, data, "referenceprice")
	assert.Nil(t, data["pseudopricePercent"])

	prices, ok := data["prices"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, prices, 2)
	assert.Equal(t, "500,00", prices[0]["price"])
	assert.Equal(t, 20, prices[0]["to"])
	assert.Nil(t, prices[1]["to"])

	assert.Equal(t, "shop.php?sViewport=basket&sAdd=SW10007", data["linkBasket"])
	assert.Equal(t, "shop.php?sViewport=detail&sArticle=7", data["linkDetails"])
	assert.Equal(t, "http://shop.test/media/image/acme.png", data["supplierImg"])
	assert.Equal(t, "Acme", data["supplierName"])
	assert.Equal(t, 1, data["taxID"])
}

func TestConvertListProductStruct_SingleBand(t *testing.T) {
	product := graduatedProduct()
	product.Prices = product.Prices[1:]

	data := newTestConverter().ConvertListProductStruct(product)
	assert.Nil(t, data["priceStartingFrom"])
}

func TestConvertListProductStruct_PseudoPrice(t *testing.T) {
	p := price(1, nil, 90, 100)
	p.CalculatedReferencePrice = 9

	product := &models.ListProduct{
		BaseProduct:       models.BaseProduct{ID: 1, VariantID: 1, Number: "SW1"},
		Prices:            []*models.Price{p},
		CheapestPrice:     p,
		CheapestUnitPrice: p,
	}

	data := newTestConverter().ConvertListProductStruct(product)

	assert.Equal(t, true, data["has_pseudoprice"])
	assert.Equal(t, "100,00", data["pseudoprice"])
	assert.Equal(t, "9,00", data["referenceprice"])
	assert.Equal(t, map[string]interface{}{"int": 10, "float": 10.0}, data["pseudopricePercent"])
}

func TestConvertListProductStruct_UsesMinPurchasePrice(t *testing.T) {
	product := graduatedProduct()
	product.CheapestPrice = price(21, nil, 1200, 0)

	converter := NewConverter(Config{BaseFile: "shop.php", CalculateCheapestPriceWithMinPurchase: true}, nil)
	data := converter.ConvertListProductStruct(product)

	assert.Equal(t, "1200,00", data["price"])
}

func TestConvertListProductStruct_CoreAttributesAndMarketing(t *testing.T) {
	product := graduatedProduct()
	product.Attributes.Set("core", models.Attribute{"id": 5, "articleID": 7, "attr1": "red"})
	product.Marketing = &models.Marketing{IsNew: true}

	release := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	product.ReleaseDate = &release

	data := newTestConverter().ConvertListProductStruct(product)

	assert.Equal(t, "red", data["attr1"])
	assert.Equal(t, 7, data["articleID"])
	assert.Equal(t, true, data["newArticle"])
	assert.Equal(t, "2024-06-01", data["sReleasedate"])

	attributes := data["attributes"].(map[string]interface{})
	assert.Contains(t, attributes, "core")
}

func TestConvertMediaStruct_AlwaysHasAttribute(t *testing.T) {
	converter := newTestConverter()

	data := converter.ConvertMediaStruct(&models.Media{ID: 1, File: "media/image/a.jpg"})
	assert.Contains(t, data, "attribute")
	assert.Equal(t, map[string]interface{}{}, data["attribute"])

	media := &models.Media{ID: 2}
	media.Attributes.Set("image", models.Attribute{"id": 1, "imageID": 2, "title": "x"})
	data = converter.ConvertMediaStruct(media)
	assert.Equal(t, map[string]interface{}{"title": "x"}, data["attribute"])
}

func TestConvertMediaStruct_Thumbnails(t *testing.T) {
	retina := "thumb@2x.jpg"
	media := &models.Media{
		ID: 1,
		Thumbnails: []models.Thumbnail{
			{Source: "thumb.jpg", RetinaSource: &retina, MaxWidth: 200, MaxHeight: 200},
			{Source: "small.jpg", MaxWidth: 100, MaxHeight: 100},
		},
	}

	data := newTestConverter().ConvertMediaStruct(media)
	thumbnails := data["thumbnails"].([]map[string]interface{})

	require.Len(t, thumbnails, 2)
	assert.Equal(t, "thumb.jpg, thumb@2x.jpg 2x", thumbnails[0]["sourceSet"])
	assert.Equal(t, "small.jpg", thumbnails[1]["sourceSet"])
	assert.Nil(t, thumbnails[1]["retinaSource"])
}

func TestConvertMediaStruct_Filter(t *testing.T) {
	converter := newTestConverter(WithMediaFilter(func(data map[string]interface{}, media *models.Media) map[string]interface{} {
		data["filtered"] = media.ID
		return data
	}))

	data := converter.ConvertMediaStruct(&models.Media{ID: 9})
	assert.Equal(t, 9, data["filtered"])
}

func TestConvertProductStruct(t *testing.T) {
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	list := graduatedProduct()
	list.Prices[0].CalculatedPseudoPrice = 600
	list.Unit = &models.Unit{ID: 2, MinPurchase: 1, Unit: "l", Name: "Liter"}

	product := &models.Product{
		ListProduct: *list,
		Media: []*models.Media{
			{ID: 1, File: "a.jpg", Preview: true},
			{ID: 2, File: "b.jpg"},
		},
		Votes:     []*models.Vote{{ID: 1, Name: "Max", Points: 4, CreatedAt: &created}},
		Downloads: []*models.Download{{ID: 1, Description: "Manual", File: "media/pdf/manual.pdf", Size: 1024}},
		Links:     []*models.Link{{ID: 1, Description: "Homepage", Link: "www.example.com", Target: "_blank"}},
		PropertySet: &models.PropertySet{
			ID:   4,
			Name: "Spirits",
			Groups: []*models.PropertyGroup{{
				ID:   9,
				Name: "Size",
				Options: []*models.PropertyOption{
					{ID: 23, Name: "0,5 Liter"},
					{ID: 24, Name: "0,7 Liter"},
				},
			}},
		},
	}

	data := newTestConverter().ConvertProductStruct(product)

	assert.Equal(t, 100, data["maxpurchase"])
	assert.Equal(t, 1, data["purchasesteps"])
	assert.Equal(t, "500,00", data["price"])
	assert.Equal(t, map[string]interface{}{"int": 17, "float": 16.67}, data["pseudopricePercent"])
	assert.Len(t, data["sBlockPrices"], 2)

	image := data["image"].(map[string]interface{})
	assert.Equal(t, 1, image["id"])
	assert.Len(t, data["images"], 1)

	assert.Equal(t, map[string]interface{}{"average": 0, "count": 0}, data["sVoteAverage"])
	comments := data["sVoteComments"].([]map[string]interface{})
	assert.Equal(t, "2023-01-02 03:04:05", comments[0]["datum"])
	assert.Equal(t, "0000-00-00 00:00:00", comments[0]["answer_date"])

	assert.Equal(t, 4, data["filtergroupID"])
	properties := data["sProperties"].(map[int]interface{})
	assert.Equal(t, "0,5 Liter, 0,7 Liter", properties[9].(map[string]interface{})["value"])

	downloads := data["sDownloads"].([]map[string]interface{})
	assert.Equal(t, "http://shop.test/media/pdf/manual.pdf", downloads[0]["filename"])

	links := data["sLinks"].([]map[string]interface{})
	require.Len(t, links, 2)
	assert.Equal(t, "http://www.example.com", links[0]["link"])
	assert.Equal(t, true, links[1]["supplierSearch"])
	assert.Equal(t, "controller=listing&action=manufacturer&sSupplier=3", links[1]["link"])

	assert.Empty(t, data["sRelatedArticles"])
	assert.Empty(t, data["relatedProductStreams"])
}

func TestConvertCategoryStruct(t *testing.T) {
	category := &models.Category{ID: 5, ParentID: 3, Name: "Blog", Blog: true, DisplayFacets: true, Path: []int{3, 1}}

	data := newTestConverter().ConvertCategoryStruct(category)

	assert.Equal(t, "shop.php?sViewport=blog&sCategory=5", data["link"])
	assert.Equal(t, false, data["hideFilter"])
	assert.Equal(t, true, data["hideTop"])
	assert.Equal(t, map[string]interface{}{}, data["attribute"])
	assert.Nil(t, data["media"])
}

func TestConvertManufacturerStruct_MergesAttributes(t *testing.T) {
	manufacturer := &models.Manufacturer{ID: 1, Name: "Acme", CoverFile: "acme.png"}
	manufacturer.Attributes.Set("core", models.Attribute{"a": 1})
	manufacturer.Attributes.Set("seo", models.Attribute{"b": 2})

	data := newTestConverter().ConvertManufacturerStruct(manufacturer)

	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, data["attribute"])
	assert.Equal(t, "acme.png", data["image"])
}

func TestConvertConfigurator(t *testing.T) {
	set := &models.ConfiguratorSet{
		ID:   1,
		Type: models.ConfiguratorTypeSelection,
		Groups: []*models.ConfiguratorGroup{{
			ID:   2,
			Name: "Color",
			Options: []*models.ConfiguratorOption{
				{ID: 10, Name: "red", Active: true},
				{ID: 11, Name: "blue", Selected: true, Active: true},
			},
		}},
	}

	converter := newTestConverter()
	product := graduatedProduct()

	data := converter.ConvertConfiguratorStruct(product, set)
	groups := data["sConfigurator"].([]map[string]interface{})
	require.Len(t, groups, 1)
	assert.Equal(t, 11, groups[0]["selected_value"])
	assert.Len(t, groups[0]["values"], 2)

	settings := data["sConfiguratorSettings"].(map[string]interface{})
	assert.Equal(t, "article_config_step.tpl", settings["template"])

	priceData := converter.ConvertConfiguratorPrice(product, set)
	assert.Equal(t, "400,00", priceData["priceStartingFrom"])
	assert.Equal(t, "400,00", priceData["price"])

	set.SelectionSpecified = true
	assert.Empty(t, converter.ConvertConfiguratorPrice(product, set))
}

func TestConvertConfiguratorSettings_Templates(t *testing.T) {
	converter := newTestConverter()
	product := graduatedProduct()

	tests := map[int]string{
		models.ConfiguratorTypeStandard:  "article_config_upprice.tpl",
		models.ConfiguratorTypeSelection: "article_config_step.tpl",
		models.ConfiguratorTypePicture:   "article_config_picture.tpl",
	}

	for typ, template := range tests {
		settings := converter.ConfiguratorSettings(&models.ConfiguratorSet{Type: typ}, product)
		assert.Equal(t, template, settings["template"])
	}
}
