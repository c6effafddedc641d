package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/rag-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers deterministically without a RAG engine
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

var mockIndex = []entity.RAGDocument{
	mockDoc("Code du travail", 12, "Article 12: the employment contract may be terminated by either party subject to a notice period set by law or by the collective agreement."),
	mockDoc("Code des obligations et contrats", 230, "Article 230: obligations validly formed have the force of law between the parties and may only be revoked by their mutual consent."),
	mockDoc("Code de la famille", 49, "Article 49: each spouse keeps separate ownership of their assets; the spouses may agree on the management of property acquired during marriage."),
	mockDoc("Code pénal", 1, "Article 1: the law defines the acts that constitute offences and sets the penalties applicable to their perpetrators."),
	mockDoc("Loi 31-08", 3, "Article 3: the consumer has the right to clear and complete information on the essential characteristics of goods and services."),
}

func mockDoc(source string, page int, content string) entity.RAGDocument {
	return entity.RAGDocument{
		PageContent: content,
		Metadata:    entity.RAGDocumentMetadata{Source: source, Page: &page},
	}
}

func (m *MockConnector) Ask(ctx context.Context, req *entity.RAGQueryRequest, apiKey string) (*entity.RAGQueryResponse, error) {
	ctxzap.Info(ctx, "[MOCK] query",
		zap.String("model", req.Model),
		zap.Int("k", req.K),
	)

	if err := checkKey(apiKey); err != nil {
		return nil, err
	}

	sources := []entity.RAGDocument{}
	if !strings.Contains(strings.ToLower(req.Question), "no sources") {
		sources = topK(mockIndex, req.K)
	}

	return &entity.RAGQueryResponse{
		Result:          fmt.Sprintf("**Mock answer** (%s, temperature %.1f) to: %s", req.Model, req.Temperature, req.Question),
		SourceDocuments: sources,
	}, nil
}

func (m *MockConnector) AskEphemeral(ctx context.Context, req *entity.RAGEphemeralQueryRequest, apiKey string) (*entity.RAGQueryResponse, error) {
	ctxzap.Info(ctx, "[MOCK] ephemeral query",
		zap.String("model", req.Model),
		zap.Int("document_count", len(req.Documents)),
	)

	if err := checkKey(apiKey); err != nil {
		return nil, err
	}

	return &entity.RAGQueryResponse{
		Result:          fmt.Sprintf("**Mock answer** from %d uploaded page(s) to: %s", len(req.Documents), req.Question),
		SourceDocuments: topK(req.Documents, req.K),
	}, nil
}

func (m *MockConnector) Health(ctx context.Context) error {
	ctxzap.Debug(ctx, "[MOCK] health")
	return nil
}

func checkKey(apiKey string) error {
	if !strings.HasPrefix(apiKey, "sk-") {
		return fmt.Errorf("%w: invalid API key", entity.ErrAuthentication)
	}
	return nil
}

func topK(docs []entity.RAGDocument, k int) []entity.RAGDocument {
	k = max(0, min(k, len(docs)))
	out := make([]entity.RAGDocument, k)
	copy(out, docs[:k])
	return out
}
