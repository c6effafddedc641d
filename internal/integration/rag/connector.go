package rag

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/futig/rag-assistant/internal/integration/common"
	pkghttp "github.com/futig/rag-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// APIKeyHeader carries the model provider key resolved for the call
const APIKeyHeader = "X-OpenAI-Key"

type Connector struct {
	config    config.RAGConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RAGConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Ask queries the persistent index
// POST {query_endpoint}
func (c *Connector) Ask(ctx context.Context, req *entity.RAGQueryRequest, apiKey string) (*entity.RAGQueryResponse, error) {
	ctxzap.Debug(ctx, "querying RAG engine", zap.String("endpoint", c.config.QueryEndpoint))

	var resp entity.RAGQueryResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.QueryEndpoint, req, &resp,
		pkghttp.WithHeader(APIKeyHeader, apiKey),
	)
	if err != nil {
		return nil, mapError(err)
	}

	return normalize(&resp)
}

// AskEphemeral queries only the documents sent with the request
// POST {ephemeral_query_endpoint}
func (c *Connector) AskEphemeral(ctx context.Context, req *entity.RAGEphemeralQueryRequest, apiKey string) (*entity.RAGQueryResponse, error) {
	ctxzap.Debug(ctx, "querying RAG engine with uploaded documents",
		zap.String("endpoint", c.config.EphemeralQueryEndpoint),
		zap.Int("document_count", len(req.Documents)),
	)

	var resp entity.RAGQueryResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.EphemeralQueryEndpoint, req, &resp,
		pkghttp.WithHeader(APIKeyHeader, apiKey),
	)
	if err != nil {
		return nil, mapError(err)
	}

	return normalize(&resp)
}

// Health checks the engine is up
// GET {health_endpoint}
func (c *Connector) Health(ctx context.Context) error {
	var resp entity.RAGHealthResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.HealthEndpoint, nil, &resp); err != nil {
		return mapError(err)
	}
	if resp.Status != "" && !strings.EqualFold(resp.Status, "ok") {
		return fmt.Errorf("%w: engine reports status %q", entity.ErrService, resp.Status)
	}
	return nil
}

// normalize rejects a reply without an answer and makes missing sources an
// empty list
func normalize(resp *entity.RAGQueryResponse) (*entity.RAGQueryResponse, error) {
	if strings.TrimSpace(resp.Result) == "" {
		return nil, fmt.Errorf("%w: engine returned an empty answer", entity.ErrService)
	}
	if resp.SourceDocuments == nil {
		resp.SourceDocuments = []entity.RAGDocument{}
	}
	return resp, nil
}

// mapError turns transport failures into domain errors. 401 and 403 mean
// the provider key was refused; anything else is a service failure.
func mapError(err error) error {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", entity.ErrAuthentication, detail(httpErr.Message))
		default:
			return fmt.Errorf("%w: engine returned %d: %s", entity.ErrService, httpErr.StatusCode, detail(httpErr.Message))
		}
	}
	return fmt.Errorf("%w: %w", entity.ErrService, err)
}

func detail(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "no details"
	}
	return msg
}
