package models

type Manufacturer struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Link            string     `json:"link"`
	CoverFile       string     `json:"coverFile"`
	MetaTitle       string     `json:"metaTitle"`
	MetaDescription string     `json:"metaDescription"`
	MetaKeywords    string     `json:"metaKeywords"`
	Attributes      Attributes `json:"attributes,omitempty"`
}
