package models

import "time"

// Category is a node of the shop category tree. Path lists the ancestor ids
// from the direct parent up to the root.
type Category struct {
	ID                  int        `json:"id"`
	ParentID            int        `json:"parentId"`
	Name                string     `json:"name"`
	Position            int        `json:"position"`
	Path                []int      `json:"path"`
	Active              bool       `json:"active"`
	Blog                bool       `json:"blog"`
	DisplayFacets       bool       `json:"displayFacets"`
	DisplayInNavigation bool       `json:"displayInNavigation"`
	AllowViewSelect     bool       `json:"allowViewSelect"`
	MetaTitle           string     `json:"metaTitle"`
	MetaKeywords        string     `json:"metaKeywords"`
	MetaDescription     string     `json:"metaDescription"`
	CmsHeadline         string     `json:"cmsHeadline"`
	CmsText             string     `json:"cmsText"`
	Template            string     `json:"template"`
	ProductBoxLayout    string     `json:"productBoxLayout"`
	ExternalLink        string     `json:"externalLink"`
	Media               *Media     `json:"media,omitempty"`
	Attributes          Attributes `json:"attributes,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}
