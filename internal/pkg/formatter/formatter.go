package formatter

import (
	"fmt"
	"strconv"

	"github.com/futig/rag-assistant/internal/entity"
)

const (
	FormatMarkdown = "md"
	FormatPDF      = "pdf"
)

// Answer is a question with the result it received
type Answer struct {
	Question string
	Result   *entity.QueryResult
}

type Formatter interface {
	Format(answer *Answer) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format string) (Formatter, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidParameter, format)
	}
}

func sourceTitle(doc entity.SourceDocument) string {
	source := doc.SourceLabel
	if source == "" {
		source = "Unknown document"
	}
	page := "?"
	if doc.PageNumber != nil {
		page = strconv.Itoa(*doc.PageNumber)
	}
	return fmt.Sprintf("%s (page %s)", source, page)
}
