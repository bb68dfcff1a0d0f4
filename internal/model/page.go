package model

// Page is one slice of an owner's recent files.
// NextCursor is nil exactly when HasMore is false.
type Page struct {
	Files      []*File `json:"files"`
	NextCursor *string `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
	Total      int     `json:"total"`
}
