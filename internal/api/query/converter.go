package query

import (
	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/entity"
)

func toQuery(req *entity.QueryRequest, defaults config.ModelConfig) *entity.Query {
	q := &entity.Query{
		Question: req.Question,
		Settings: entity.Settings{
			Model:       req.Model,
			Temperature: defaults.DefaultTemperature,
			K:           defaults.DefaultK,
			APIKey:      req.APIKey,
		},
	}
	if q.Model == "" {
		q.Model = defaults.DefaultModel
	}
	if req.Temperature != nil {
		q.Temperature = *req.Temperature
	}
	if req.K != nil {
		q.K = *req.K
	}
	return q
}

func toQueryResponse(res *entity.QueryResult) *entity.QueryResponse {
	resp := &entity.QueryResponse{
		Answer:          res.AnswerText,
		SourceDocuments: make([]entity.SourceDocumentDTO, 0, len(res.SourceDocuments)),
	}
	for _, d := range res.SourceDocuments {
		resp.SourceDocuments = append(resp.SourceDocuments, entity.SourceDocumentDTO{
			Content: d.Content,
			Source:  d.SourceLabel,
			Page:    d.PageNumber,
		})
	}
	return resp
}
