package legacy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
)

func boundValue(to *int) interface{} {
	if to == nil {
		return nil
	}
	return *to
}

func (c *Converter) ConvertPriceStruct(price *models.Price) map[string]interface{} {
	return map[string]interface{}{
		"valFrom":        price.From,
		"valTo":          boundValue(price.To),
		"from":           price.From,
		"to":             boundValue(price.To),
		"price":          price.CalculatedPrice,
		"pseudoprice":    price.CalculatedPseudoPrice,
		"referenceprice": price.CalculatedReferencePrice,
		"attributes":     attributesToArray(price.Attributes),
	}
}

func (c *Converter) ConvertUnitStruct(unit *models.Unit) map[string]interface{} {
	return map[string]interface{}{
		"minpurchase":   unit.MinPurchase,
		"maxpurchase":   optionalInt(unit.MaxPurchase),
		"purchasesteps": optionalInt(unit.PurchaseStep),
		"purchaseunit":  unit.PurchaseUnit,
		"referenceunit": unit.ReferenceUnit,
		"packunit":      unit.PackUnit,
		"unitID":        unit.ID,
		"sUnit": map[string]interface{}{
			"unit":        unit.Unit,
			"description": unit.Name,
		},
		"unit_attributes": attributesToArray(unit.Attributes),
	}
}

func sourceSet(thumbnail models.Thumbnail) string {
	if thumbnail.RetinaSource != nil {
		return fmt.Sprintf("%s, %s 2x", thumbnail.Source, *thumbnail.RetinaSource)
	}
	return thumbnail.Source
}

// ConvertMediaStruct converts an image. The "attribute" key is always present.
func (c *Converter) ConvertMediaStruct(media *models.Media) map[string]interface{} {
	if media == nil {
		return map[string]interface{}{}
	}

	thumbnails := make([]map[string]interface{}, 0, len(media.Thumbnails))
	for _, thumbnail := range media.Thumbnails {
		var retina interface{}
		if thumbnail.RetinaSource != nil {
			retina = *thumbnail.RetinaSource
		}
		thumbnails = append(thumbnails, map[string]interface{}{
			"source":       thumbnail.Source,
			"retinaSource": retina,
			"sourceSet":    sourceSet(thumbnail),
			"maxWidth":     thumbnail.MaxWidth,
			"maxHeight":    thumbnail.MaxHeight,
		})
	}

	data := map[string]interface{}{
		"id":          media.ID,
		"position":    1,
		"source":      media.File,
		"description": media.Name,
		"extension":   media.Extension,
		"main":        media.Preview,
		"parentId":    nil,
		"width":       media.Width,
		"height":      media.Height,
		"thumbnails":  thumbnails,
	}

	attribute := map[string]interface{}{}
	if media.Attributes.Has("image") {
		attribute = map[string]interface{}(media.Attributes.Get("image").Clone())
		delete(attribute, "id")
		delete(attribute, "imageID")
	}
	data["attribute"] = attribute

	if c.mediaFilter != nil {
		data = c.mediaFilter(data, media)
	}

	return data
}

func (c *Converter) ConvertVoteAverageStruct(average *models.VoteAverage) map[string]interface{} {
	return map[string]interface{}{
		"average":    math.Round(average.Average),
		"count":      average.Count,
		"pointCount": average.PointCount,
		"attributes": attributesToArray(average.Attributes),
	}
}

func (c *Converter) ConvertVoteStruct(vote *models.Vote) map[string]interface{} {
	return map[string]interface{}{
		"id":          vote.ID,
		"name":        vote.Name,
		"headline":    vote.Headline,
		"comment":     vote.Comment,
		"points":      vote.Points,
		"active":      true,
		"email":       vote.Email,
		"answer":      vote.Answer,
		"datum":       formatDateTime(vote.CreatedAt),
		"answer_date": formatDateTime(vote.AnsweredAt),
		"attributes":  attributesToArray(vote.Attributes),
	}
}

func (c *Converter) ConvertCategoryStruct(category *models.Category) map[string]interface{} {
	var media interface{}
	if category.Media != nil {
		media = c.ConvertMediaStruct(category.Media)
	}

	return map[string]interface{}{
		"id":               category.ID,
		"parentId":         category.ParentID,
		"name":             category.Name,
		"position":         category.Position,
		"metaKeywords":     category.MetaKeywords,
		"metaDescription":  category.MetaDescription,
		"cmsHeadline":      category.CmsHeadline,
		"cmsText":          category.CmsText,
		"active":           true,
		"template":         category.Template,
		"productBoxLayout": category.ProductBoxLayout,
		"blog":             category.Blog,
		"path":             category.Path,
		"external":         category.ExternalLink,
		"hideFilter":       !category.DisplayFacets,
		"hideTop":          !category.DisplayInNavigation,
		"noViewSelect":     category.AllowViewSelect,
		"changed":          nil,
		"added":            nil,
		"attribute":        coreAttribute(category.Attributes),
		"attributes":       attributesToArray(category.Attributes),
		"media":            media,
		"link":             c.categoryLink(category),
	}
}

func (c *Converter) categoryLink(category *models.Category) string {
	viewport := "cat"
	if category.Blog {
		viewport = "blog"
	}
	return c.config.BaseFile + "?sViewport=" + viewport + "&sCategory=" + strconv.Itoa(category.ID)
}

// ConvertManufacturerStruct merges all attribute structs into "attribute".
func (c *Converter) ConvertManufacturerStruct(manufacturer *models.Manufacturer) map[string]interface{} {
	attribute := map[string]interface{}{}
	for _, attr := range manufacturer.Attributes {
		merge(attribute, attr)
	}

	return map[string]interface{}{
		"id":              manufacturer.ID,
		"name":            manufacturer.Name,
		"description":     manufacturer.Description,
		"metaTitle":       manufacturer.MetaTitle,
		"metaDescription": manufacturer.MetaDescription,
		"metaKeywords":    manufacturer.MetaKeywords,
		"link":            manufacturer.Link,
		"image":           manufacturer.CoverFile,
		"attribute":       attribute,
	}
}

// ConvertPropertySetStruct returns one entry per property group keyed by the
// group id. "value" joins the option names.
func (c *Converter) ConvertPropertySetStruct(set *models.PropertySet) map[int]interface{} {
	result := make(map[int]interface{}, len(set.Groups))

	for _, group := range set.Groups {
		names := make([]string, 0, len(group.Options))
		values := make(map[int]string, len(group.Options))
		media := make(map[int]interface{})

		for _, option := range group.Options {
			names = append(names, option.Name)
			values[option.ID] = option.Name

			if option.Media != nil {
				media[option.ID] = merge(
					map[string]interface{}{"valueId": option.ID},
					c.ConvertMediaStruct(option.Media),
				)
			}
		}

		result[group.ID] = map[string]interface{}{
			"id":        group.ID,
			"optionID":  group.ID,
			"name":      group.Name,
			"groupID":   set.ID,
			"groupName": set.Name,
			"value":     strings.Join(names, ", "),
			"values":    values,
			"media":     media,
		}
	}

	return result
}

func (c *Converter) ConvertPropertyGroupStruct(group *models.PropertyGroup) map[string]interface{} {
	options := make([]map[string]interface{}, 0, len(group.Options))
	for _, option := range group.Options {
		options = append(options, c.ConvertPropertyOptionStruct(option))
	}

	return map[string]interface{}{
		"id":           group.ID,
		"name":         group.Name,
		"isFilterable": group.Filterable,
		"options":      options,
		"attributes":   attributesToArray(group.Attributes),
	}
}

func (c *Converter) ConvertPropertyOptionStruct(option *models.PropertyOption) map[string]interface{} {
	return map[string]interface{}{
		"id":         option.ID,
		"name":       option.Name,
		"attributes": attributesToArray(option.Attributes),
	}
}
