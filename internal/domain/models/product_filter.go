package models

// ArticleFilter narrows the admin article list.
type ArticleFilter struct {
	Name        string `json:"name,omitempty"`
	Number      string `json:"number,omitempty"`
	SupplierID  int    `json:"supplier_id,omitempty"`
	CategoryID  int    `json:"category_id,omitempty"`
	Active      *bool  `json:"active,omitempty"`
	SearchQuery string `json:"search_query,omitempty"`

	CreatedAfter  int64 `json:"created_after,omitempty"`
	UpdatedBefore int64 `json:"updated_before,omitempty"`
}

// ToMap keeps only the fields that are set.
func (f *ArticleFilter) ToMap() map[string]interface{} {
	result := make(map[string]interface{})

	if f.Name != "" {
		result["name"] = f.Name
	}

	if f.Number != "" {
		result["number"] = f.Number
	}

	if f.SupplierID != 0 {
		result["supplier_id"] = f.SupplierID
	}

	if f.CategoryID != 0 {
		result["category_id"] = f.CategoryID
	}

	if f.Active != nil {
		result["active"] = *f.Active
	}

	if f.SearchQuery != "" {
		result["search_query"] = f.SearchQuery
	}

	if f.CreatedAfter > 0 {
		result["created_after"] = f.CreatedAfter
	}

	if f.UpdatedBefore > 0 {
		result["updated_before"] = f.UpdatedBefore
	}

	return result
}
