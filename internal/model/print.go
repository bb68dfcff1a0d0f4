package model

// PrintRequest references the file to print either by URL or by one of the caller's file IDs.
type PrintRequest struct {
	FileURL string `json:"fileUrl,omitempty"`
	FileID  string `json:"fileId,omitempty"`
}

type PrintAck struct {
	Message string `json:"message"`
}
