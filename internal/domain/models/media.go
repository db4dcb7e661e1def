package models

type Thumbnail struct {
	Source       string  `json:"source"`
	RetinaSource *string `json:"retinaSource"`
	MaxWidth     int     `json:"maxWidth"`
	MaxHeight    int     `json:"maxHeight"`
}

const (
	MediaTypeImage   = "IMAGE"
	MediaTypeVideo   = "VIDEO"
	MediaTypeArchive = "ARCHIVE"
	MediaTypePDF     = "PDF"
	MediaTypeUnknown = "UNKNOWN"
)

type Media struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Extension   string      `json:"extension"`
	File        string      `json:"file"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Preview     bool        `json:"preview"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
	Attributes  Attributes  `json:"attributes,omitempty"`
}
