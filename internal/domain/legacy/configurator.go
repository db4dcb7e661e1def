package legacy

import "github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"

const (
	templateStep    = "article_config_step.tpl"
	templatePicture = "article_config_picture.tpl"
	templateUpprice = "article_config_upprice.tpl"
)

func (c *Converter) ConvertConfiguratorGroupStruct(group *models.ConfiguratorGroup) map[string]interface{} {
	return map[string]interface{}{
		"groupID":          group.ID,
		"groupname":        group.Name,
		"groupdescription": group.Description,
		"selected_value":   nil,
		"selected":         group.Selected,
		"user_selected":    group.Selected,
	}
}

func (c *Converter) ConvertConfiguratorOptionStruct(group *models.ConfiguratorGroup, option *models.ConfiguratorOption) map[string]interface{} {
	data := map[string]interface{}{
		"optionID":      option.ID,
		"groupID":       group.ID,
		"optionname":    option.Name,
		"user_selected": option.Selected,
		"selected":      option.Selected,
		"selectable":    option.Active,
	}

	if option.Media != nil {
		data["media"] = c.ConvertMediaStruct(option.Media)
	}

	return data
}

// ConvertConfiguratorStruct converts the variant selection of a product. Group
// values are keyed by option id.
func (c *Converter) ConvertConfiguratorStruct(product *models.ListProduct, set *models.ConfiguratorSet) map[string]interface{} {
	groups := make([]map[string]interface{}, 0, len(set.Groups))

	for _, group := range set.Groups {
		groupData := c.ConvertConfiguratorGroupStruct(group)

		options := make(map[int]interface{}, len(group.Options))
		for _, option := range group.Options {
			if option.Selected {
				groupData["selected_value"] = option.ID
			}
			options[option.ID] = c.ConvertConfiguratorOptionStruct(group, option)
		}

		groupData["values"] = options
		groups = append(groups, groupData)
	}

	return map[string]interface{}{
		"sConfigurator":         groups,
		"sConfiguratorSettings": c.ConfiguratorSettings(set, product),
		"isSelectionSpecified":  set.SelectionSpecified,
	}
}

// ConvertConfiguratorPrice returns the price fields shown before a variant is
// selected. It is empty once the selection is specified.
func (c *Converter) ConvertConfiguratorPrice(product *models.ListProduct, set *models.ConfiguratorSet) map[string]interface{} {
	if set.SelectionSpecified {
		return map[string]interface{}{}
	}

	data := map[string]interface{}{}

	cheapest := c.cheapestPrice(product)
	if cheapest != nil && (len(product.Prices) > 1 || product.HasDifferentPrices) {
		data["priceStartingFrom"] = FormatPrice(cheapest.CalculatedPrice)
	}

	if from, ok := data["priceStartingFrom"].(string); ok && !isEmpty(from) {
		data["price"] = from
	} else if variantPrice := product.VariantPrice(); variantPrice != nil {
		data["price"] = FormatPrice(variantPrice.CalculatedPrice)
	}

	data["sBlockPrices"] = []interface{}{}

	return data
}

func (c *Converter) ConfiguratorSettings(set *models.ConfiguratorSet, product *models.ListProduct) map[string]interface{} {
	settings := map[string]interface{}{
		"instock":   product.CloseOuts,
		"articleID": product.ID,
		"type":      set.Type,
	}

	switch set.Type {
	case models.ConfiguratorTypeSelection:
		settings["template"] = templateStep
	case models.ConfiguratorTypePicture:
		settings["template"] = templatePicture
	default:
		settings["template"] = templateUpprice
	}

	return settings
}
