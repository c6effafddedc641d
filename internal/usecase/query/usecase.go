package query

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/futig/rag-assistant/internal/docset"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/futig/rag-assistant/internal/pkg/logger"
	"github.com/futig/rag-assistant/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	keySourceUser    = "user"
	keySourceDefault = "default"
)

// QueryUsecase is the single query service both pages and the JSON API go through
type QueryUsecase struct {
	ragConnector  RagConnector
	loader        DocumentLoader
	validator     *validator.Validator
	defaultAPIKey string
	logger        *zap.Logger
}

func NewUsecase(
	ragConnector RagConnector,
	loader DocumentLoader,
	validator *validator.Validator,
	defaultAPIKey string,
	logger *zap.Logger,
) *QueryUsecase {
	return &QueryUsecase{
		ragConnector:  ragConnector,
		loader:        loader,
		validator:     validator,
		defaultAPIKey: defaultAPIKey,
		logger:        logger,
	}
}

// Ask answers a question against the persistent index
func (uc *QueryUsecase) Ask(ctx context.Context, q *entity.Query) (*entity.QueryResult, error) {
	ctx = logger.WithAction(ctx, "ask")

	apiKey, err := uc.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	req := toRAGQueryRequest(q)
	resp, err := uc.ragConnector.Ask(ctx, &req, apiKey)
	if err == nil {
		err = checkAnswer(resp)
	}
	if err != nil {
		ctxzap.Error(ctx, "query failed", zap.Error(err))
		return nil, classify(err)
	}

	result := toQueryResult(resp)
	ctxzap.Info(ctx, "query answered", zap.Int("source_count", len(result.SourceDocuments)))
	return result, nil
}

// AskEphemeral answers a question against an uploaded document set only.
// The set is discarded when the call returns, whatever the outcome.
func (uc *QueryUsecase) AskEphemeral(ctx context.Context, set *docset.Set, q *entity.Query) (*entity.QueryResult, error) {
	ctx = logger.WithAction(ctx, "ask_ephemeral")
	defer set.Discard()

	if set == nil || set.Len() == 0 {
		if set != nil && set.Discarded() {
			return nil, entity.ErrDocumentsDiscarded
		}
		return nil, entity.ErrNoDocuments
	}

	apiKey, err := uc.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	req := entity.RAGEphemeralQueryRequest{
		RAGQueryRequest: toRAGQueryRequest(q),
		Documents:       toRAGDocuments(set.Documents()),
	}
	resp, err := uc.ragConnector.AskEphemeral(ctx, &req, apiKey)
	if err == nil {
		err = checkAnswer(resp)
	}
	if err != nil {
		ctxzap.Error(ctx, "ephemeral query failed", zap.Error(err))
		return nil, classify(err)
	}

	result := toQueryResult(resp)
	ctxzap.Info(ctx, "ephemeral query answered",
		zap.Int("document_count", len(req.Documents)),
		zap.Int("source_count", len(result.SourceDocuments)),
	)
	return result, nil
}

// LoadDocuments validates an upload and splits it into a new document set
func (uc *QueryUsecase) LoadDocuments(ctx context.Context, files []*multipart.FileHeader) (*docset.Set, error) {
	ctx = logger.WithAction(ctx, "load_documents")

	if err := uc.validator.ValidateUpload(files); err != nil {
		ctxzap.Warn(ctx, "upload rejected", zap.Error(err))
		return nil, err
	}

	set, err := uc.loader.LoadAll(ctx, files)
	if err != nil {
		ctxzap.Warn(ctx, "upload could not be loaded", zap.Error(err))
		return nil, fmt.Errorf("load documents: %w", err)
	}

	return set, nil
}

// Health reports whether the RAG engine is reachable
func (uc *QueryUsecase) Health(ctx context.Context) error {
	return uc.ragConnector.Health(ctx)
}

// prepare validates the query and resolves the credential for it
func (uc *QueryUsecase) prepare(ctx context.Context, q *entity.Query) (string, error) {
	q.Question = strings.TrimSpace(q.Question)
	if err := uc.validator.ValidateQuery(q); err != nil {
		return "", err
	}

	apiKey, source := strings.TrimSpace(q.APIKey), keySourceUser
	if apiKey == "" {
		apiKey, source = uc.defaultAPIKey, keySourceDefault
	}
	if apiKey == "" {
		ctxzap.Warn(ctx, "no api key provided and no default configured")
		return "", fmt.Errorf("%w: no API key provided and no default key configured", entity.ErrAuthentication)
	}

	ctxzap.Info(ctx, "querying rag engine",
		zap.String("model", q.Model),
		zap.Float64("temperature", q.Temperature),
		zap.Int("k", q.K),
		zap.String("key_source", source),
		zap.String("key", logger.MaskKey(apiKey)),
	)

	return apiKey, nil
}

// classify keeps authentication failures distinct and reports everything
// else as a service failure
// checkAnswer fails a reply that carries no answer text
func checkAnswer(resp *entity.RAGQueryResponse) error {
	if resp == nil || strings.TrimSpace(resp.Result) == "" {
		return fmt.Errorf("%w: engine returned an empty answer", entity.ErrService)
	}
	return nil
}

func classify(err error) error {
	if errors.Is(err, entity.ErrAuthentication) || errors.Is(err, entity.ErrService) {
		return err
	}
	return fmt.Errorf("%w: %w", entity.ErrService, err)
}
