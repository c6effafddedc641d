package entity

import "mime/multipart"

type QueryRequest struct {
	Question    string   `json:"question"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	K           *int     `json:"k,omitempty"`
	APIKey      string   `json:"api_key,omitempty"`
}

type EphemeralQueryRequest struct {
	QueryRequest
	Files []*multipart.FileHeader
}

type SourceDocumentDTO struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Page    *int   `json:"page,omitempty"`
}

type QueryResponse struct {
	Answer          string              `json:"answer"`
	SourceDocuments []SourceDocumentDTO `json:"source_documents"`
	DocumentCount   int                 `json:"document_count,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
