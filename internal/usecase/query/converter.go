package query

import (
	"github.com/futig/rag-assistant/internal/entity"
)

func toRAGQueryRequest(q *entity.Query) entity.RAGQueryRequest {
	return entity.RAGQueryRequest{
		Question:    q.Question,
		Model:       q.Model,
		Temperature: q.Temperature,
		K:           q.K,
	}
}

func toRAGDocuments(docs []entity.Document) []entity.RAGDocument {
	out := make([]entity.RAGDocument, 0, len(docs))
	for _, d := range docs {
		page := d.Page
		out = append(out, entity.RAGDocument{
			PageContent: d.Content,
			Metadata: entity.RAGDocumentMetadata{
				Source: d.Source,
				Page:   &page,
			},
		})
	}
	return out
}

func toQueryResult(resp *entity.RAGQueryResponse) *entity.QueryResult {
	result := &entity.QueryResult{
		AnswerText:      resp.Result,
		SourceDocuments: make([]entity.SourceDocument, 0, len(resp.SourceDocuments)),
	}
	for _, d := range resp.SourceDocuments {
		result.SourceDocuments = append(result.SourceDocuments, entity.SourceDocument{
			Content:     d.PageContent,
			SourceLabel: d.Metadata.Source,
			PageNumber:  d.Metadata.Page,
		})
	}
	return result
}
