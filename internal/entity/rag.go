package entity

// Wire types of the external RAG engine. The response mirrors the
// {"result", "source_documents"} shape of a LangChain retrieval chain.

type RAGDocumentMetadata struct {
	Source string `json:"source,omitempty"`
	Page   *int   `json:"page,omitempty"`
}

type RAGDocument struct {
	PageContent string              `json:"page_content"`
	Metadata    RAGDocumentMetadata `json:"metadata"`
}

type RAGQueryRequest struct {
	Question    string  `json:"question"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	K           int     `json:"k"`
}

type RAGEphemeralQueryRequest struct {
	RAGQueryRequest
	Documents []RAGDocument `json:"documents"`
}

type RAGQueryResponse struct {
	Result          string        `json:"result"`
	SourceDocuments []RAGDocument `json:"source_documents"`
}

type RAGHealthResponse struct {
	Status string `json:"status"`
}
