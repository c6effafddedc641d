package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/docset"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/futig/rag-assistant/internal/integration/rag"
	"github.com/futig/rag-assistant/internal/pkg/validator"
	usecase "github.com/futig/rag-assistant/internal/usecase/query"
	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var modelCfg = config.ModelConfig{
	Models:             []string{"gpt-4o-mini", "gpt-4o"},
	DefaultModel:       "gpt-4o-mini",
	DefaultTemperature: 0.2,
	DefaultK:           3,
}

type testEnv struct {
	router  http.Handler
	tempDir string
}

func newTestEnv(t *testing.T, defaultKey string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	uploadCfg := config.FileUploadConfig{
		MaxFileSize:   1 << 20,
		MaxTotalSize:  2 << 20,
		MaxFileCount:  3,
		MaxUploadSize: 4 << 20,
		TempDir:       dir,
	}

	uc := usecase.NewUsecase(
		rag.NewMockConnector(zap.NewNop()),
		docset.NewLoader(uploadCfg),
		validator.NewValidator(uploadCfg, modelCfg.Models),
		defaultKey,
		zap.NewNop(),
	)

	h := NewHandler(uc, modelCfg, uploadCfg)
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	RegisterRoutes(r, h, []string{"https://app.example.ma"})

	return &testEnv{router: r, tempDir: dir}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func makePDF(t *testing.T, pages int) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 12)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, fmt.Sprintf("Section %d", i))
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query/ephemeral", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestAsk_UsesDefaults(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	rec := env.do(jsonRequest(t, map[string]any{"question": "Can my landlord raise the rent?"}))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[entity.QueryResponse](t, rec)
	assert.NotEmpty(t, resp.Answer)
	assert.Contains(t, resp.Answer, "gpt-4o-mini")
	assert.Len(t, resp.SourceDocuments, 3)
}

func TestAsk_EmptySourcesIsArray(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	rec := env.do(jsonRequest(t, map[string]any{"question": "answer with no sources"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source_documents":[]`)
}

func TestAsk_InvalidKeyIsUnauthorized(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	rec := env.do(jsonRequest(t, map[string]any{"question": "hello", "api_key": "wrong"}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decode[entity.ErrorResponse](t, rec)
	assert.Equal(t, "Unauthorized", resp.Error)
}

func TestAsk_NoCredentialIsUnauthorized(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(jsonRequest(t, map[string]any{"question": "hello"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAsk_BadInput(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"malformed json", httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader("{"))},
		{"blank question", jsonRequest(t, map[string]any{"question": "  "})},
		{"temperature out of range", jsonRequest(t, map[string]any{"question": "q", "temperature": 2})},
		{"k below one", jsonRequest(t, map[string]any{"question": "q", "k": 0})},
		{"unknown model", jsonRequest(t, map[string]any{"question": "q", "model": "llama"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAskEphemeral_LoadsPagesAndCleansUp(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	req := multipartRequest(t,
		map[string]string{"question": "What does the contract say?", "k": "2"},
		map[string][]byte{"contract.pdf": makePDF(t, 3), "annex.pdf": makePDF(t, 2)},
	)

	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[entity.QueryResponse](t, rec)
	assert.Equal(t, 5, resp.DocumentCount)
	assert.Len(t, resp.SourceDocuments, 2)

	entries, err := os.ReadDir(env.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAskEphemeral_RejectsNonPDF(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	req := multipartRequest(t,
		map[string]string{"question": "q"},
		map[string][]byte{"notes.txt": []byte("hello")},
	)

	rec := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskEphemeral_RequiresFiles(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	rec := env.do(multipartRequest(t, map[string]string{"question": "q"}, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskEphemeral_BadNumber(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	req := multipartRequest(t,
		map[string]string{"question": "q", "temperature": "warm"},
		map[string][]byte{"a.pdf": makePDF(t, 1)},
	)

	rec := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "temperature must be a number")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRoutes_CORS(t *testing.T) {
	env := newTestEnv(t, "sk-default-credential")

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/query", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		return env.do(req)
	}

	rec := preflight("https://app.example.ma")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.ma", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Vary"), "Origin")

	rec = preflight("https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req := jsonRequest(t, map[string]any{"question": "What is the notice period?"})
	req.Header.Set("Origin", "https://app.example.ma")
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.ma", rec.Header().Get("Access-Control-Allow-Origin"))
}
