package pages

import (
	"context"
	"mime/multipart"

	"github.com/futig/rag-assistant/internal/docset"
	"github.com/futig/rag-assistant/internal/entity"
)

type QueryUsecase interface {
	Ask(ctx context.Context, q *entity.Query) (*entity.QueryResult, error)
	AskEphemeral(ctx context.Context, set *docset.Set, q *entity.Query) (*entity.QueryResult, error)
	LoadDocuments(ctx context.Context, files []*multipart.FileHeader) (*docset.Set, error)
}

type ContactValidator interface {
	ValidateContact(msg *entity.ContactMessage) error
}
