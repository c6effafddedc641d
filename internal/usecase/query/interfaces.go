package query

import (
	"context"
	"mime/multipart"

	"github.com/futig/rag-assistant/internal/docset"
	"github.com/futig/rag-assistant/internal/entity"
)

// RagConnector talks to the external RAG engine. apiKey is the already
// resolved credential for this call.
type RagConnector interface {
	Ask(ctx context.Context, req *entity.RAGQueryRequest, apiKey string) (*entity.RAGQueryResponse, error)
	AskEphemeral(ctx context.Context, req *entity.RAGEphemeralQueryRequest, apiKey string) (*entity.RAGQueryResponse, error)
	Health(ctx context.Context) error
}

type DocumentLoader interface {
	LoadAll(ctx context.Context, files []*multipart.FileHeader) (*docset.Set, error)
}
