package models

import "time"

type Vote struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Headline   string     `json:"headline"`
	Comment    string     `json:"comment"`
	Points     float64    `json:"points"`
	Email      string     `json:"email"`
	Answer     string     `json:"answer"`
	CreatedAt  *time.Time `json:"createdAt"`
	AnsweredAt *time.Time `json:"answeredAt"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type VotePoints struct {
	Points int `json:"points"`
	Total  int `json:"total"`
}

type VoteAverage struct {
	Average    float64      `json:"average"`
	Count      int          `json:"count"`
	PointCount []VotePoints `json:"pointCount"`
	Attributes Attributes   `json:"attributes,omitempty"`
}
