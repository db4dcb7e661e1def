package legacy

import (
	"strconv"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
)

// ConvertListProductStructList converts every product of a listing.
func (c *Converter) ConvertListProductStructList(products []*models.ListProduct) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(products))
	for _, product := range products {
		out = append(out, c.ConvertListProductStruct(product))
	}
	return out
}

// ConvertListProductStruct converts a listing product including its cheapest
// price, graduation and links.
func (c *Converter) ConvertListProductStruct(product *models.ListProduct) map[string]interface{} {
	if product == nil {
		return map[string]interface{}{}
	}

	data := c.listProductData(product)

	cheapest := c.cheapestPrice(product)
	if cheapest != nil {
		price := FormatPrice(cheapest.CalculatedPrice)

		merge(data, map[string]interface{}{
			"has_pseudoprice":     cheapest.CalculatedPseudoPrice > cheapest.CalculatedPrice,
			"price":               price,
			"price_numeric":       cheapest.CalculatedPrice,
			"pseudoprice":         FormatPrice(cheapest.CalculatedPseudoPrice),
			"pseudoprice_numeric": cheapest.CalculatedPseudoPrice,
			"pricegroup":          customerGroupKey(cheapest),
		})

		if reference := FormatPrice(cheapest.CalculatedReferencePrice); !isEmpty(reference) {
			data["referenceprice"] = reference
		}

		if product.PriceGroup != nil {
			data["pricegroupActive"] = true
			data["pricegroupID"] = product.PriceGroup.ID
		}

		if len(product.Prices) > 1 || product.HasDifferentPrices {
			data["priceStartingFrom"] = price
		}

		if cheapest.CalculatedPseudoPrice != 0 {
			data["pseudopricePercent"] = pseudoPricePercent(cheapest.CalculatedPrice, cheapest.CalculatedPseudoPrice)
		}

		if cheapest.Unit != nil {
			merge(data, c.ConvertUnitStruct(cheapest.Unit))
		}
	}

	if product.Cover != nil {
		data["image"] = c.ConvertMediaStruct(product.Cover)
	}

	if product.VoteAverage != nil {
		data["sVoteAverage"] = c.ConvertVoteAverageStruct(product.VoteAverage)
	}

	prices := make([]map[string]interface{}, 0, len(product.Prices))
	for _, price := range product.Prices {
		priceData := c.ConvertPriceStruct(price)
		merge(priceData, map[string]interface{}{
			"has_pseudoprice":     price.CalculatedPseudoPrice > price.CalculatedPrice,
			"price":               FormatPrice(price.CalculatedPrice),
			"price_numeric":       price.CalculatedPrice,
			"pseudoprice":         FormatPrice(price.CalculatedPseudoPrice),
			"pseudoprice_numeric": price.CalculatedPseudoPrice,
			"pricegroup":          customerGroupKey(price),
			"purchaseunit":        nil,
			"maxpurchase":         nil,
		})
		if price.Unit != nil {
			priceData["purchaseunit"] = price.Unit.PurchaseUnit
			priceData["maxpurchase"] = optionalInt(price.Unit.MaxPurchase)
		}
		prices = append(prices, priceData)
	}
	data["prices"] = prices

	data["linkBasket"] = c.config.BaseFile + "?sViewport=basket&sAdd=" + product.Number
	data["linkDetails"] = c.config.BaseFile + "?sViewport=detail&sArticle=" + strconv.Itoa(product.ID)

	return data
}

// ConvertProductStruct converts a detail page product.
func (c *Converter) ConvertProductStruct(product *models.Product) map[string]interface{} {
	if product == nil {
		return map[string]interface{}{}
	}

	data := c.listProductData(&product.ListProduct)

	if product.Unit != nil {
		merge(data, c.ConvertUnitStruct(product.Unit))
	}

	if isEmpty(data["maxpurchase"]) {
		data["maxpurchase"] = c.config.MaxPurchase
	}
	if isEmpty(data["purchasesteps"]) {
		data["purchasesteps"] = 1
	}

	if product.PriceGroup != nil {
		data["pricegroupActive"] = product.IsPriceGroupActive
		data["pricegroupID"] = product.PriceGroup.ID
	}

	if variantPrice := product.VariantPrice(); variantPrice != nil {
		data["price"] = FormatPrice(variantPrice.CalculatedPrice)
		data["price_numeric"] = variantPrice.CalculatedPrice
		data["pseudoprice"] = FormatPrice(variantPrice.CalculatedPseudoPrice)
		data["pseudoprice_numeric"] = variantPrice.CalculatedPseudoPrice
		data["has_pseudoprice"] = variantPrice.CalculatedPseudoPrice > variantPrice.CalculatedPrice

		if variantPrice.CalculatedPseudoPrice != 0 {
			data["pseudopricePercent"] = pseudoPricePercent(variantPrice.CalculatedPrice, variantPrice.CalculatedPseudoPrice)
		}

		data["pricegroup"] = customerGroupKey(variantPrice)
		data["referenceprice"] = variantPrice.CalculatedReferencePrice
	}

	if len(product.Prices) > 1 {
		blockPrices := make([]map[string]interface{}, 0, len(product.Prices))
		for _, price := range product.Prices {
			blockPrices = append(blockPrices, c.ConvertPriceStruct(price))
		}
		data["sBlockPrices"] = blockPrices
	}

	var images []map[string]interface{}
	for _, media := range product.Media {
		images = append(images, c.ConvertMediaStruct(media))
	}
	if len(images) == 0 {
		if product.Cover != nil {
			data["image"] = c.ConvertMediaStruct(product.Cover)
		}
	} else {
		data["image"] = images[0]
		data["images"] = images[1:]
	}

	if len(product.Votes) > 0 {
		comments := make([]map[string]interface{}, 0, len(product.Votes))
		for _, vote := range product.Votes {
			comments = append(comments, c.ConvertVoteStruct(vote))
		}
		data["sVoteComments"] = comments
	}

	data["sVoteAverage"] = map[string]interface{}{"average": 0, "count": 0}
	if product.VoteAverage != nil {
		data["sVoteAverage"] = c.ConvertVoteAverageStruct(product.VoteAverage)
	}

	if product.PropertySet != nil {
		data["filtergroupID"] = product.PropertySet.ID
		data["sProperties"] = c.ConvertPropertySetStruct(product.PropertySet)
	}

	if len(product.Downloads) > 0 {
		downloads := make([]map[string]interface{}, 0, len(product.Downloads))
		for _, download := range product.Downloads {
			downloads = append(downloads, map[string]interface{}{
				"id":          download.ID,
				"description": download.Description,
				"filename":    c.mediaURL(download.File),
				"size":        download.Size,
				"attributes":  coreAttribute(download.Attributes),
			})
		}
		data["sDownloads"] = downloads
	}

	links := make([]map[string]interface{}, 0, len(product.Links)+1)
	for _, link := range product.Links {
		target := link.Link
		if !strings.Contains(target, "http") {
			target = "http://" + target
		}
		links = append(links, map[string]interface{}{
			"id":             link.ID,
			"description":    link.Description,
			"link":           target,
			"target":         link.Target,
			"supplierSearch": false,
		})
	}
	if product.Manufacturer != nil {
		links = append(links, map[string]interface{}{
			"supplierSearch": true,
			"description":    product.Manufacturer.Name,
			"target":         "_parent",
			"link":           SupplierListingLink(product.Manufacturer),
		})
	}
	data["sLinks"] = links

	data["sRelatedArticles"] = c.ConvertListProductStructList(product.RelatedProducts)
	data["sSimilarArticles"] = c.ConvertListProductStructList(product.SimilarProducts)

	streams := make([]map[string]interface{}, 0, len(product.RelatedProductStreams))
	for _, stream := range product.RelatedProductStreams {
		streams = append(streams, c.ConvertRelatedProductStreamStruct(stream))
	}
	data["relatedProductStreams"] = streams

	if product.ConfiguratorSet != nil {
		merge(data, c.ConvertConfiguratorStruct(&product.ListProduct, product.ConfiguratorSet))
		merge(data, c.ConvertConfiguratorPrice(&product.ListProduct, product.ConfiguratorSet))
	}

	return data
}

// listProductData converts the scalar fields shared by list and detail products.
func (c *Converter) listProductData(product *models.ListProduct) map[string]interface{} {
	data := map[string]interface{}{
		"articleID":          product.ID,
		"articleDetailsID":   product.VariantID,
		"ordernumber":        product.Number,
		"highlight":          product.Highlight,
		"description":        product.ShortDescription,
		"description_long":   product.LongDescription,
		"esd":                product.HasEsd,
		"articleName":        product.Name,
		"taxID":              nil,
		"tax":                nil,
		"instock":            product.Stock,
		"isAvailable":        product.IsAvailable,
		"weight":             product.Weight,
		"shippingtime":       product.ShippingTime,
		"pricegroupActive":   false,
		"pricegroupID":       nil,
		"length":             product.Length,
		"height":             product.Height,
		"width":              product.Width,
		"laststock":          product.CloseOuts,
		"additionaltext":     product.AdditionalText,
		"datum":              formatDate(product.CreatedAt),
		"sales":              product.Sales,
		"filtergroupID":      nil,
		"priceStartingFrom":  nil,
		"pseudopricePercent": nil,
		"sVariantArticle":    nil,
		"sConfigurator":      product.HasConfigurator,
		"metaTitle":          product.MetaTitle,
		"shippingfree":       product.ShippingFree,
		"suppliernumber":     product.ManufacturerNumber,
		"notification":       product.AllowsNotification,
		"ean":                product.Ean,
		"keywords":           product.Keywords,
		"sReleasedate":       dateToString(product.ReleaseDate),
		"template":           product.Template,
	}

	if product.Tax != nil {
		data["taxID"] = product.Tax.ID
		data["tax"] = product.Tax.Tax
	}

	if product.Attributes.Has("core") {
		core := product.Attributes.Get("core").Clone()
		delete(core, "id")
		delete(core, "articleID")
		delete(core, "articledetailsID")
		merge(data, core)
	}

	data["attributes"] = attributesToArray(product.Attributes)

	if m := product.Manufacturer; m != nil {
		var image interface{} = m.CoverFile
		if m.CoverFile != "" {
			image = c.mediaURL(m.CoverFile)
		}

		data["supplierName"] = m.Name
		data["supplierImg"] = image
		data["supplierID"] = m.ID
		data["supplierDescription"] = m.Description
		data["supplier_attributes"] = attributesToArray(m.Attributes)
	}

	if product.Marketing != nil {
		data["newArticle"] = product.Marketing.IsNew
		data["sUpcoming"] = product.Marketing.ComingSoon
		data["topseller"] = product.Marketing.IsTopSeller
	}

	if product.ReleaseDate != nil && product.ReleaseDate.After(c.now()) {
		data["sReleasedate"] = product.ReleaseDate.Format(dateLayout)
	}

	return data
}

func customerGroupKey(price *models.Price) interface{} {
	if price.CustomerGroup == nil {
		return nil
	}
	return price.CustomerGroup.Key
}

// SupplierListingLink is the relative link to the manufacturer listing.
func SupplierListingLink(manufacturer *models.Manufacturer) string {
	return "controller=listing&action=manufacturer&sSupplier=" + strconv.Itoa(manufacturer.ID)
}

func (c *Converter) ConvertRelatedProductStreamStruct(stream *models.ProductStream) map[string]interface{} {
	if stream == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		"id":          stream.ID,
		"name":        stream.Name,
		"description": stream.Description,
		"type":        stream.Type,
	}
}
