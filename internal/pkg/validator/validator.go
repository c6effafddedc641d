package validator

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/entity"
	playground "github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var AllowedExtensions = map[string]bool{
	".pdf": true,
}

// Validator validates queries and file uploads
type Validator struct {
	cfg      config.FileUploadConfig
	models   []string
	validate *playground.Validate
}

func NewValidator(cfg config.FileUploadConfig, models []string) *Validator {
	validate := playground.New(playground.WithRequiredStructEnabled())
	// notblank lives in the non-standard set and must be registered explicitly
	_ = validate.RegisterValidation("notblank", validators.NotBlank)

	return &Validator{
		cfg:      cfg,
		models:   models,
		validate: validate,
	}
}

// ValidateQuery checks the question and the model parameters
func (v *Validator) ValidateQuery(q *entity.Query) error {
	if err := v.validate.Struct(q); err != nil {
		var verrs playground.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", entity.ErrInvalidParameter, describe(verrs[0]))
		}
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	if len(v.models) > 0 && !slices.Contains(v.models, q.Model) {
		return fmt.Errorf("%w: unknown model %q", entity.ErrInvalidParameter, q.Model)
	}

	return nil
}

// ValidateContact checks the required contact form fields
func (v *Validator) ValidateContact(msg *entity.ContactMessage) error {
	if err := v.validate.Struct(msg); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrMissingField, err)
	}
	return nil
}

func describe(fe playground.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// ValidateUpload validates multiple file uploads
func (v *Validator) ValidateUpload(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: files", entity.ErrMissingField)
	}

	if len(files) > v.cfg.MaxFileCount {
		return fmt.Errorf("%w: maximum %d files allowed, got %d", entity.ErrTooManyFiles, v.cfg.MaxFileCount, len(files))
	}

	var totalSize int64
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := AllowedExtensions[ext]; !ok {
			return fmt.Errorf("%w: %q (only PDF files are accepted)", entity.ErrInvalidExtension, fh.Filename)
		}

		if fh.Size == 0 {
			return fmt.Errorf("%w: file '%s' is empty", entity.ErrInvalidFile, fh.Filename)
		}

		if fh.Size > v.cfg.MaxFileSize {
			return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
		}

		totalSize += fh.Size
	}

	if totalSize > v.cfg.MaxTotalSize {
		return fmt.Errorf("%w: total size is %d bytes (max %d)", entity.ErrTotalSizeTooLarge, totalSize, v.cfg.MaxTotalSize)
	}

	return nil
}

// SanitizeFilename strips directories and characters that break display
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	replacer := strings.NewReplacer(
		"\x00", "",
		"\n", "",
		"\r", "",
	)
	return replacer.Replace(filename)
}
