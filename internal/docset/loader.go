package docset

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strings"

	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/futig/rag-assistant/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/tmc/langchaingo/documentloaders"
	"go.uber.org/zap"
)

// Loader turns uploaded PDF files into page-level documents.
// Every upload is spooled to a private temp file that is removed before
// the call returns, on success and on failure.
type Loader struct {
	tempDir string
}

func NewLoader(cfg config.FileUploadConfig) *Loader {
	return &Loader{tempDir: cfg.TempDir}
}

// LoadFile splits one PDF into one document per page, tagged with the
// original filename and the 1-based page number.
func (l *Loader) LoadFile(ctx context.Context, filename string, r io.Reader) ([]entity.Document, error) {
	tmp, err := os.CreateTemp(l.tempDir, "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			ctxzap.Warn(ctx, "failed to remove temp file", zap.String("path", tmp.Name()), zap.Error(err))
		}
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: %s is empty", entity.ErrInvalidFile, filename)
	}

	pdfCtx, err := api.ReadContextFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a readable PDF: %v", entity.ErrInvalidFile, filename, err)
	}
	if pdfCtx.Encrypt != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrEncryptedFile, filename)
	}

	pages, err := documentloaders.NewPDF(tmp, size).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: extract text from %s: %v", entity.ErrInvalidFile, filename, err)
	}

	docs := make([]entity.Document, 0, len(pages))
	for i, p := range pages {
		page := i + 1
		if n, ok := p.Metadata["page"].(int); ok {
			page = n
		}
		docs = append(docs, entity.Document{
			Content: strings.TrimSpace(p.PageContent),
			Source:  filename,
			Page:    page,
		})
	}

	ctxzap.Debug(ctx, "pdf split into pages",
		zap.String("filename", filename),
		zap.Int("page_count", pdfCtx.PageCount),
		zap.Int("document_count", len(docs)),
	)

	return docs, nil
}

// LoadAll loads every file in order into a new Set. Nothing is returned
// unless all files load.
func (l *Loader) LoadAll(ctx context.Context, files []*multipart.FileHeader) (*Set, error) {
	if len(files) == 0 {
		return nil, entity.ErrNoDocuments
	}

	set := New()
	for _, fh := range files {
		docs, err := l.loadHeader(ctx, fh)
		if err != nil {
			set.Discard()
			return nil, err
		}
		_ = set.Add(docs...)
	}

	ctxzap.Info(ctx, "upload loaded",
		zap.Int("file_count", len(files)),
		zap.Int("document_count", set.Len()),
	)
	return set, nil
}

func (l *Loader) loadHeader(ctx context.Context, fh *multipart.FileHeader) ([]entity.Document, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrInvalidFile, fh.Filename, err)
	}
	defer f.Close()

	return l.LoadFile(ctx, validator.SanitizeFilename(fh.Filename), f)
}
