// Package translation overlays per shop texts on storefront read models.
package translation

import (
	"fmt"
	"sort"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
)

// Object types of the translations table.
const (
	TypeArticle            = "article"
	TypeManufacturer       = "manufacturer"
	TypeUnit               = "unit"
	TypePropertySet        = "property_set"
	TypePropertyGroup      = "property_group"
	TypePropertyOption     = "property_option"
	TypeConfiguratorGroup  = "configurator_group"
	TypeConfiguratorOption = "configurator_option"
)

// Translatable fields per object type.
var fieldsByType = map[string][]string{
	TypeArticle:            {"name", "shortDescription", "longDescription", "additionalText", "keywords", "metaTitle", "packUnit"},
	TypeManufacturer:       {"description", "metaTitle", "metaDescription", "metaKeywords"},
	TypeUnit:               {"unit", "name"},
	TypePropertySet:        {"name"},
	TypePropertyGroup:      {"name"},
	TypePropertyOption:     {"name"},
	TypeConfiguratorGroup:  {"name", "description"},
	TypeConfiguratorOption: {"name"},
}

// Types lists the known object types in a stable order.
func Types() []string {
	types := make([]string, 0, len(fieldsByType))
	for t := range fieldsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

type Fields map[string]string

type Key struct {
	Type string
	ID   int
}

// Translation is the stored overlay of one object in one shop.
type Translation struct {
	Type   string `json:"type"`
	ID     int    `json:"id"`
	ShopID int    `json:"shopId"`
	Fields Fields `json:"fields"`
}

// ValidateKey checks the address of a translation.
func ValidateKey(objectType string, id, shopID int) error {
	if _, ok := fieldsByType[objectType]; !ok {
		return fmt.Errorf("unknown translation type %q: %w", objectType, utils.ErrValidation)
	}
	if id <= 0 || shopID <= 0 {
		return fmt.Errorf("translation needs an object and a shop id: %w", utils.ErrParameterMissing)
	}
	return nil
}

func (t *Translation) Validate() error {
	if err := ValidateKey(t.Type, t.ID, t.ShopID); err != nil {
		return err
	}
	allowed := fieldsByType[t.Type]
	if len(t.Fields) == 0 {
		return fmt.Errorf("translation has no fields: %w", utils.ErrParameterMissing)
	}
	for field := range t.Fields {
		if !contains(allowed, field) {
			return fmt.Errorf("field %q can not be translated for %s: %w", field, t.Type, utils.ErrValidation)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Set holds the translations of one shop. A nil Set translates nothing.
type Set map[Key]Fields

func (s Set) Add(t *Translation) {
	s[Key{Type: t.Type, ID: t.ID}] = t.Fields
}

// apply copies every non-empty translated field into its target.
func (s Set) apply(typ string, id int, targets map[string]*string) {
	fields, ok := s[Key{Type: typ, ID: id}]
	if !ok {
		return
	}
	for name, target := range targets {
		if v := fields[name]; v != "" && target != nil {
			*target = v
		}
	}
}

func (s Set) Unit(u *models.Unit) {
	if u == nil || u.ID == 0 {
		return
	}
	s.apply(TypeUnit, u.ID, map[string]*string{"unit": &u.Unit, "name": &u.Name})
}

func (s Set) Manufacturer(m *models.Manufacturer) {
	if m == nil {
		return
	}
	s.apply(TypeManufacturer, m.ID, map[string]*string{
		"description":     &m.Description,
		"metaTitle":       &m.MetaTitle,
		"metaDescription": &m.MetaDescription,
		"metaKeywords":    &m.MetaKeywords,
	})
}

// ListProduct translates the product texts, its unit and its manufacturer.
// The article pack unit wins over the unit translation.
func (s Set) ListProduct(p *models.ListProduct) {
	if p == nil {
		return
	}
	s.Unit(p.Unit)
	s.Manufacturer(p.Manufacturer)

	targets := map[string]*string{
		"name":             &p.Name,
		"shortDescription": &p.ShortDescription,
		"longDescription":  &p.LongDescription,
		"additionalText":   &p.AdditionalText,
		"keywords":         &p.Keywords,
		"metaTitle":        &p.MetaTitle,
	}
	if p.Unit != nil {
		targets["packUnit"] = &p.Unit.PackUnit
	}
	s.apply(TypeArticle, p.ID, targets)
}

func (s Set) PropertySet(set *models.PropertySet) {
	if set == nil {
		return
	}
	s.apply(TypePropertySet, set.ID, map[string]*string{"name": &set.Name})
	for _, group := range set.Groups {
		s.apply(TypePropertyGroup, group.ID, map[string]*string{"name": &group.Name})
		for _, option := range group.Options {
			s.apply(TypePropertyOption, option.ID, map[string]*string{"name": &option.Name})
		}
	}
}

func (s Set) ConfiguratorSet(set *models.ConfiguratorSet) {
	if set == nil {
		return
	}
	for _, group := range set.Groups {
		s.apply(TypeConfiguratorGroup, group.ID, map[string]*string{"name": &group.Name, "description": &group.Description})
		for _, option := range group.Options {
			s.apply(TypeConfiguratorOption, option.ID, map[string]*string{"name": &option.Name})
		}
	}
}

// Keys collects the lookups needed to translate the given products.
func Keys(products []*models.ListProduct, units []*models.Unit) []Key {
	seen := map[Key]bool{}
	var keys []Key
	add := func(k Key) {
		if k.ID > 0 && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, p := range products {
		add(Key{Type: TypeArticle, ID: p.ID})
		if p.Manufacturer != nil {
			add(Key{Type: TypeManufacturer, ID: p.Manufacturer.ID})
		}
		if p.Unit != nil {
			add(Key{Type: TypeUnit, ID: p.Unit.ID})
		}
	}
	for _, u := range units {
		if u != nil {
			add(Key{Type: TypeUnit, ID: u.ID})
		}
	}
	return keys
}

// AssociationKeys collects the lookups of a property and a configurator set.
func AssociationKeys(properties *models.PropertySet, configurator *models.ConfiguratorSet) []Key {
	var keys []Key
	if properties != nil {
		keys = append(keys, Key{Type: TypePropertySet, ID: properties.ID})
		for _, g := range properties.Groups {
			keys = append(keys, Key{Type: TypePropertyGroup, ID: g.ID})
			for _, o := range g.Options {
				keys = append(keys, Key{Type: TypePropertyOption, ID: o.ID})
			}
		}
	}
	if configurator != nil {
		for _, g := range configurator.Groups {
			keys = append(keys, Key{Type: TypeConfiguratorGroup, ID: g.ID})
			for _, o := range g.Options {
				keys = append(keys, Key{Type: TypeConfiguratorOption, ID: o.ID})
			}
		}
	}
	return keys
}
