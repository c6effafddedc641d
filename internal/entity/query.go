package entity

// Settings are the model parameters a user picks in the sidebar.
type Settings struct {
	Model       string  `json:"model" validate:"required"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=1"`
	K           int     `json:"k" validate:"gte=1,lte=50"`
	// APIKey overrides the default credential when set. Never persisted.
	APIKey string `json:"-"`
}

// Query is a single question sent to the query service.
type Query struct {
	Question string `validate:"required,notblank"`
	Settings
}

// Document is one page-level text unit of an uploaded file.
type Document struct {
	Content string
	Source  string
	Page    int
}

// SourceDocument is a passage the query service cited for an answer.
type SourceDocument struct {
	Content     string
	SourceLabel string
	// PageNumber is nil when the upstream did not report a page.
	PageNumber *int
}

// QueryResult is the answer and the sources it was conditioned on.
// SourceDocuments is never nil.
type QueryResult struct {
	AnswerText      string
	SourceDocuments []SourceDocument
}

// HasSources reports whether any source document was returned.
func (r *QueryResult) HasSources() bool {
	return r != nil && len(r.SourceDocuments) > 0
}

// UploadedFile is raw upload content before it is split into pages.
type UploadedFile struct {
	Filename string
	Content  []byte
}

// ContactMessage is a message left on the contact form. It is not stored or sent.
type ContactMessage struct {
	Name    string
	Email   string `validate:"required,notblank"`
	Message string `validate:"required,notblank"`
}
