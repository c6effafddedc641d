package entity

import "errors"

// Domain errors
var (
	// Query service errors
	ErrAuthentication = errors.New("authentication failed")
	ErrService        = errors.New("query service failure")

	// File errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrTotalSizeTooLarge = errors.New("total file size too large")
	ErrEncryptedFile     = errors.New("encrypted PDF files are not supported")

	// Document set errors
	ErrNoDocuments        = errors.New("no uploaded documents")
	ErrDocumentsDiscarded = errors.New("document set already discarded")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// IsFileError reports whether err is caused by a rejected upload.
func IsFileError(err error) bool {
	return errors.Is(err, ErrInvalidFile) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrTooManyFiles) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrTotalSizeTooLarge) ||
		errors.Is(err, ErrEncryptedFile)
}
