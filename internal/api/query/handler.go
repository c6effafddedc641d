package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/futig/rag-assistant/internal/pkg/logger"
	"github.com/futig/rag-assistant/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

type Handler struct {
	usecase   QueryUsecase
	modelCfg  config.ModelConfig
	uploadCfg config.FileUploadConfig
}

func NewHandler(
	usecase QueryUsecase,
	modelCfg config.ModelConfig,
	uploadCfg config.FileUploadConfig,
) *Handler {
	return &Handler{
		usecase:   usecase,
		modelCfg:  modelCfg,
		uploadCfg: uploadCfg,
	}
}

// Ask handles POST /api/v1/query
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := h.usecase.Ask(ctx, toQuery(&req, h.modelCfg))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toQueryResponse(res))
}

// AskEphemeral handles POST /api/v1/query/ephemeral
func (h *Handler) AskEphemeral(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AskEphemeral")

	if err := r.ParseMultipartForm(h.uploadCfg.MaxUploadSize); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := parseEphemeralForm(r)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	ctxzap.Info(ctx, "ephemeral query received", zap.Int("file_count", len(req.Files)))

	set, err := h.usecase.LoadDocuments(ctx, req.Files)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	pages := set.Len()

	res, err := h.usecase.AskEphemeral(ctx, set, toQuery(&req.QueryRequest, h.modelCfg))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	resp := toQueryResponse(res)
	resp.DocumentCount = pages
	response.Success(w, resp)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.usecase.Health(r.Context()); err != nil {
		ctxzap.Warn(r.Context(), "rag engine unhealthy", zap.Error(err))
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "rag_engine": "unreachable"})
		return
	}
	response.Success(w, map[string]string{"status": "healthy", "rag_engine": "ok"})
}

func parseEphemeralForm(r *http.Request) (*entity.EphemeralQueryRequest, error) {
	req := &entity.EphemeralQueryRequest{
		QueryRequest: entity.QueryRequest{
			Question: r.FormValue("question"),
			Model:    r.FormValue("model"),
			APIKey:   r.FormValue("api_key"),
		},
		Files: r.MultipartForm.File["files"],
	}

	if v := strings.TrimSpace(r.FormValue("temperature")); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: temperature must be a number", entity.ErrInvalidParameter)
		}
		req.Temperature = &t
	}

	if v := strings.TrimSpace(r.FormValue("k")); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: k must be an integer", entity.ErrInvalidParameter)
		}
		req.K = &k
	}

	return req, nil
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrNoDocuments):
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case entity.IsFileError(err):
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrAuthentication):
		h.respondError(ctx, w, http.StatusUnauthorized, "authentication failed: check the API key", err)
	case errors.Is(err, entity.ErrService):
		h.respondError(ctx, w, http.StatusBadGateway, "query service failure", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
