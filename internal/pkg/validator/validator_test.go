package validator

import (
	"mime/multipart"
	"testing"

	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *Validator {
	return NewValidator(config.FileUploadConfig{
		MaxFileSize:  100,
		MaxTotalSize: 150,
		MaxFileCount: 2,
	}, []string{"gpt-4o-mini", "gpt-4o"})
}

func validQuery() *entity.Query {
	return &entity.Query{
		Question: "What is a commercial lease?",
		Settings: entity.Settings{Model: "gpt-4o-mini", Temperature: 0.2, K: 4},
	}
}

func TestValidateQuery(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		mutate  func(q *entity.Query)
		wantErr string
	}{
		{name: "valid", mutate: func(q *entity.Query) {}},
		{name: "temperature bounds inclusive", mutate: func(q *entity.Query) { q.Temperature = 1 }},
		{name: "blank question", mutate: func(q *entity.Query) { q.Question = "   " }, wantErr: "question is required"},
		{name: "empty question", mutate: func(q *entity.Query) { q.Question = "" }, wantErr: "question is required"},
		{name: "temperature too high", mutate: func(q *entity.Query) { q.Temperature = 1.5 }, wantErr: "temperature must be at most 1"},
		{name: "negative temperature", mutate: func(q *entity.Query) { q.Temperature = -0.1 }, wantErr: "temperature must be at least 0"},
		{name: "zero k", mutate: func(q *entity.Query) { q.K = 0 }, wantErr: "k must be at least 1"},
		{name: "unknown model", mutate: func(q *entity.Query) { q.Model = "llama" }, wantErr: `unknown model "llama"`},
		{name: "missing model", mutate: func(q *entity.Query) { q.Model = "" }, wantErr: "model is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuery()
			tt.mutate(q)

			err := v.ValidateQuery(q)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, entity.ErrInvalidParameter)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateUpload(t *testing.T) {
	v := newTestValidator()

	pdf := func(name string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{Filename: name, Size: size}
	}

	t.Run("accepts pdf files", func(t *testing.T) {
		require.NoError(t, v.ValidateUpload([]*multipart.FileHeader{pdf("a.pdf", 50), pdf("B.PDF", 50)}))
	})

	t.Run("no files", func(t *testing.T) {
		require.ErrorIs(t, v.ValidateUpload(nil), entity.ErrMissingField)
	})

	t.Run("wrong extension", func(t *testing.T) {
		err := v.ValidateUpload([]*multipart.FileHeader{pdf("notes.docx", 10)})
		require.ErrorIs(t, err, entity.ErrInvalidExtension)
		assert.True(t, entity.IsFileError(err))
	})

	t.Run("empty file", func(t *testing.T) {
		require.ErrorIs(t, v.ValidateUpload([]*multipart.FileHeader{pdf("a.pdf", 0)}), entity.ErrInvalidFile)
	})

	t.Run("file too large", func(t *testing.T) {
		require.ErrorIs(t, v.ValidateUpload([]*multipart.FileHeader{pdf("a.pdf", 101)}), entity.ErrFileTooLarge)
	})

	t.Run("too many files", func(t *testing.T) {
		files := []*multipart.FileHeader{pdf("a.pdf", 1), pdf("b.pdf", 1), pdf("c.pdf", 1)}
		require.ErrorIs(t, v.ValidateUpload(files), entity.ErrTooManyFiles)
	})

	t.Run("total too large", func(t *testing.T) {
		files := []*multipart.FileHeader{pdf("a.pdf", 100), pdf("b.pdf", 100)}
		require.ErrorIs(t, v.ValidateUpload(files), entity.ErrTotalSizeTooLarge)
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "code.pdf", SanitizeFilename("../../etc/code.pdf"))
	assert.Equal(t, "bail commercial.pdf", SanitizeFilename(`C:\Users\me\bail commercial.pdf`))
	assert.Equal(t, "ab.pdf", SanitizeFilename("a\nb.pdf"))
}

func TestValidateContact(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateContact(&entity.ContactMessage{Email: "a@b.ma", Message: "Hello"}))
	assert.ErrorIs(t, v.ValidateContact(&entity.ContactMessage{Name: "Sara", Message: "Hello"}), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateContact(&entity.ContactMessage{Email: "a@b.ma", Message: "   "}), entity.ErrMissingField)
}
