package model

type HelpPage struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
	HTMLContent string `json:"html,omitempty"`
}
