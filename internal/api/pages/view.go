package pages

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"github.com/futig/rag-assistant/internal/entity"
)

const (
	siteAssistant = "assistant"
	siteConsult   = "consult"
)

type viewData struct {
	Site      string
	Section   string
	Title     string
	RequestID string

	Models   []string
	Settings settingsView

	Question    string
	Placeholder string

	Result *resultView
	Error  *errorView
	Notice string

	Pending pendingView

	Features []feature
	Plans    []plan
	Contact  contactView
}

type settingsView struct {
	Model       string
	Temperature float64
	K           int
	HasAPIKey   bool
}

type resultView struct {
	Answer       template.HTML
	Sources      []sourceView
	Filenames    []string
	Ephemeral    bool
	EmptyMessage string
}

type sourceView struct {
	Title   string
	Excerpt string
}

type errorView struct {
	Message   string
	Auth      bool
	Hint      string
	Trace     []string
	RequestID string
}

type pendingView struct {
	Pages int
	Files []string
}

type feature struct {
	Icon, Title, Description string
}

type plan struct {
	Name     string
	Price    string
	Features []string
}

type contactView struct {
	Name, Email, Message string
	Sent                 bool
	Error                string
}

// sourceFormat describes how one page titles and trims cited passages.
type sourceFormat struct {
	title         func(source, page string) string
	unknownSource string
	excerptLen    int
	emptyMessage  string
}

var assistantSources = sourceFormat{
	title:         func(source, page string) string { return fmt.Sprintf("%s (page %s)", source, page) },
	unknownSource: "Unknown document",
	excerptLen:    500,
	emptyMessage:  "No source documents were returned.",
}

var consultSources = sourceFormat{
	title:         func(source, page string) string { return fmt.Sprintf("%s – p.%s", source, page) },
	unknownSource: "Document",
	excerptLen:    900,
	emptyMessage:  "No sources returned.",
}

func (f sourceFormat) view(doc entity.SourceDocument) sourceView {
	source := doc.SourceLabel
	if source == "" {
		source = f.unknownSource
	}
	page := "?"
	if doc.PageNumber != nil {
		page = strconv.Itoa(*doc.PageNumber)
	}
	return sourceView{
		Title:   f.title(source, page),
		Excerpt: excerpt(doc.Content, f.excerptLen),
	}
}

func (f sourceFormat) views(docs []entity.SourceDocument) []sourceView {
	out := make([]sourceView, 0, len(docs))
	for _, d := range docs {
		out = append(out, f.view(d))
	}
	return out
}

// excerpt keeps the first n characters and always marks the cut.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "…"
}

func toSettingsView(s entity.Settings) settingsView {
	return settingsView{
		Model:       s.Model,
		Temperature: s.Temperature,
		K:           s.K,
		HasAPIKey:   s.APIKey != "",
	}
}

const discardedHint = "The uploaded documents were discarded with this failed question. Upload them again to retry."

const authMessage = "Authentication failed: the API key was rejected or no default key is configured. Enter a valid OpenAI key in the settings and try again."

func toErrorView(err error, requestID string) *errorView {
	v := &errorView{
		Message:   "An error occurred: " + err.Error(),
		Trace:     errorChain(err),
		RequestID: requestID,
	}
	if errors.Is(err, entity.ErrAuthentication) {
		v.Auth = true
		v.Message = authMessage
	}
	return v
}

// errorChain lists err and every error it wraps, outermost first.
func errorChain(err error) []string {
	var out []string
	queue := []error{err}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e == nil {
			continue
		}
		out = append(out, fmt.Sprintf("%T: %v", e, e))
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			queue = append(queue, u.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, u.Unwrap()...)
		}
	}
	return out
}

var homeFeatures = []feature{
	{Icon: "🧠", Title: "Instant answers", Description: "GPT-4 and retrieval over the Moroccan codes"},
	{Icon: "🔒", Title: "Full confidentiality", Description: "Local processing, no external documents"},
	{Icon: "🎓", Title: "For professionals and students", Description: "Drafting deeds, exam revision"},
}

var pricingPlans = []plan{
	{Name: "Student", Price: "0 DH", Features: []string{"50 questions / month", "GPT-3.5", "E-mail support"}},
	{Name: "Pro", Price: "149 DH / month", Features: []string{"Unlimited", "GPT-4 Turbo", "PDF analysis", "24 h support"}},
	{Name: "Firm", Price: "549 DH / month", Features: []string{"5 accounts", "GPT-4 Turbo + Vision", "Private index", "Priority support"}},
}

var exampleQuestions = []string{
	"How is a commercial lease terminated?",
	"What are the conditions for judicial recovery?",
	"What payment terms apply between merchants?",
}
