package pages

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/futig/rag-assistant/internal/pkg/formatter"
	"github.com/futig/rag-assistant/internal/pkg/logger"
	"github.com/futig/rag-assistant/internal/pkg/markdown"
	"github.com/futig/rag-assistant/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// sections reachable through the one-shot navigation redirect
var sections = map[string]string{
	"home":         "/",
	"consultation": "/consultation",
	"pricing":      "/pricing",
	"about":        "/about",
	"assistant":    "/assistant",
}

type Handler struct {
	usecase   QueryUsecase
	contact   ContactValidator
	modelCfg  config.ModelConfig
	uploadCfg config.FileUploadConfig
	markdown  *markdown.Renderer
	exports   *formatter.Factory
	views     *renderer
}

func NewHandler(
	usecase QueryUsecase,
	contact ContactValidator,
	modelCfg config.ModelConfig,
	uploadCfg config.FileUploadConfig,
	md *markdown.Renderer,
) (*Handler, error) {
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &Handler{
		usecase:   usecase,
		contact:   contact,
		modelCfg:  modelCfg,
		uploadCfg: uploadCfg,
		markdown:  md,
		exports:   formatter.NewFactory(),
		views:     views,
	}, nil
}

// Assistant handles GET /assistant
func (h *Handler) Assistant(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	h.views.render(w, r, http.StatusOK, "assistant", h.assistantView(r, sess))
}

// AssistantSettings handles POST /assistant/settings
func (h *Handler) AssistantSettings(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AssistantSettings")
	sess := session.FromContext(ctx)

	data := h.assistantView(r, sess)
	if err := h.applySettings(r, sess); err != nil {
		data.Error = toErrorView(err, data.RequestID)
		h.views.render(w, r, http.StatusBadRequest, "assistant", data)
		return
	}

	ctxzap.Debug(ctx, "settings updated")
	http.Redirect(w, r, "/assistant", http.StatusSeeOther)
}

// AssistantAsk handles POST /assistant/ask
func (h *Handler) AssistantAsk(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AssistantAsk")
	sess := session.FromContext(ctx)

	if err := h.applySettings(r, sess); err != nil {
		data := h.assistantView(r, sess)
		data.Error = toErrorView(err, data.RequestID)
		h.views.render(w, r, http.StatusBadRequest, "assistant", data)
		return
	}

	question := strings.TrimSpace(r.FormValue("question"))
	data := h.assistantView(r, sess)
	data.Question = question
	if question == "" {
		h.views.render(w, r, http.StatusOK, "assistant", data)
		return
	}

	res, err := h.usecase.Ask(ctx, &entity.Query{Question: question, Settings: sess.Settings()})
	if err != nil {
		data.Error = toErrorView(err, data.RequestID)
		h.views.render(w, r, errorStatus(err), "assistant", data)
		return
	}

	sess.SetLastAnswer(question, res)
	data.Result = &resultView{
		Answer:       h.markdown.Render(res.AnswerText),
		Sources:      assistantSources.views(res.SourceDocuments),
		EmptyMessage: assistantSources.emptyMessage,
	}
	h.views.render(w, r, http.StatusOK, "assistant", data)
}

// AssistantUpload handles POST /assistant/upload
func (h *Handler) AssistantUpload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AssistantUpload")
	sess := session.FromContext(ctx)

	if err := r.ParseMultipartForm(h.uploadCfg.MaxUploadSize); err != nil {
		data := h.assistantView(r, sess)
		data.Error = toErrorView(fmt.Errorf("%w: %v", entity.ErrInvalidFile, err), data.RequestID)
		h.views.render(w, r, http.StatusBadRequest, "assistant", data)
		return
	}
	defer r.MultipartForm.RemoveAll()

	set, err := h.usecase.LoadDocuments(ctx, r.MultipartForm.File["files"])
	if err != nil {
		data := h.assistantView(r, sess)
		data.Error = toErrorView(err, data.RequestID)
		h.views.render(w, r, errorStatus(err), "assistant", data)
		return
	}

	sess.SetDocuments(set)
	ctxzap.Info(ctx, "documents parked in session", zap.Int("page_count", set.Len()))

	data := h.assistantView(r, sess)
	data.Notice = fmt.Sprintf("%d page(s) loaded from the uploaded documents.", set.Len())
	h.views.render(w, r, http.StatusOK, "assistant", data)
}

// AssistantEphemeral handles POST /assistant/ephemeral
func (h *Handler) AssistantEphemeral(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AssistantEphemeral")
	sess := session.FromContext(ctx)

	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		data := h.assistantView(r, sess)
		h.views.render(w, r, http.StatusOK, "assistant", data)
		return
	}

	set := sess.TakeDocuments()
	res, err := h.usecase.AskEphemeral(ctx, set, &entity.Query{Question: question, Settings: sess.Settings()})

	data := h.assistantView(r, sess)
	data.Question = question
	if err != nil {
		data.Error = toErrorView(err, data.RequestID)
		if set != nil {
			data.Error.Hint = discardedHint
		}
		h.views.render(w, r, errorStatus(err), "assistant", data)
		return
	}

	sess.SetLastAnswer(question, res)
	filenames := make([]string, 0, len(res.SourceDocuments))
	for _, d := range res.SourceDocuments {
		filenames = append(filenames, d.SourceLabel)
	}
	data.Result = &resultView{
		Answer:       h.markdown.Render(res.AnswerText),
		Filenames:    filenames,
		Ephemeral:    true,
		EmptyMessage: assistantSources.emptyMessage,
	}
	h.views.render(w, r, http.StatusOK, "assistant", data)
}

// Export handles GET /export/{format}
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Export")

	question, res, ok := session.FromContext(ctx).LastAnswer()
	if !ok {
		http.Error(w, "there is no answer to export yet", http.StatusNotFound)
		return
	}

	f, err := h.exports.Create(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := f.Format(&formatter.Answer{Question: question, Result: res})
	if err != nil {
		ctxzap.Error(ctx, "failed to export answer", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="answer`+f.FileExtension()+`"`)
	_, _ = w.Write(body)
}

// Home handles GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if target, ok := sections[sess.TakeRedirect()]; ok && target != "/" {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	data := h.consultView(r, sess, "home", "Mo7ami Diali")
	data.Features = homeFeatures
	h.views.render(w, r, http.StatusOK, "home", data)
}

// Navigate handles GET /go/{page}
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	if _, ok := sections[page]; !ok {
		http.NotFound(w, r)
		return
	}

	session.FromContext(r.Context()).SetRedirect(page)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Consultation handles GET /consultation
func (h *Handler) Consultation(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	h.views.render(w, r, http.StatusOK, "consultation", h.consultationView(r, sess))
}

// Consult handles POST /consultation
func (h *Handler) Consult(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Consult")
	sess := session.FromContext(ctx)

	if err := h.applySettings(r, sess); err != nil {
		data := h.consultationView(r, sess)
		data.Error = toErrorView(err, data.RequestID)
		h.views.render(w, r, http.StatusBadRequest, "consultation", data)
		return
	}

	question := strings.TrimSpace(r.FormValue("question"))
	data := h.consultationView(r, sess)
	data.Question = question
	if question == "" {
		h.views.render(w, r, http.StatusOK, "consultation", data)
		return
	}

	res, err := h.usecase.Ask(ctx, &entity.Query{Question: question, Settings: sess.Settings()})
	if err != nil {
		data.Error = toErrorView(err, data.RequestID)
		h.views.render(w, r, errorStatus(err), "consultation", data)
		return
	}

	sess.SetLastAnswer(question, res)
	data.Result = &resultView{
		Answer:       h.markdown.Render(res.AnswerText),
		Sources:      consultSources.views(res.SourceDocuments),
		EmptyMessage: consultSources.emptyMessage,
	}
	h.views.render(w, r, http.StatusOK, "consultation", data)
}

// Pricing handles GET /pricing
func (h *Handler) Pricing(w http.ResponseWriter, r *http.Request) {
	data := h.consultView(r, session.FromContext(r.Context()), "pricing", "Our plans")
	data.Plans = pricingPlans
	h.views.render(w, r, http.StatusOK, "pricing", data)
}

// About handles GET /about
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	data := h.consultView(r, session.FromContext(r.Context()), "about", "About Mo7ami Diali")
	h.views.render(w, r, http.StatusOK, "about", data)
}

// Contact handles POST /about/contact. Nothing is stored or sent.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Contact")

	msg := entity.ContactMessage{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}

	data := h.consultView(r, session.FromContext(ctx), "about", "About Mo7ami Diali")
	data.Contact = contactView{Name: msg.Name, Email: msg.Email, Message: msg.Message}

	if err := h.contact.ValidateContact(&msg); err != nil {
		ctxzap.Debug(ctx, "contact form incomplete", zap.Error(err))
		data.Contact.Error = "Please fill in the required fields."
		h.views.render(w, r, http.StatusBadRequest, "about", data)
		return
	}

	ctxzap.Info(ctx, "contact form submitted")
	data.Contact = contactView{Sent: true}
	h.views.render(w, r, http.StatusOK, "about", data)
}

func (h *Handler) assistantView(r *http.Request, sess *session.Session) *viewData {
	pages, files := sess.PendingDocuments()
	return &viewData{
		Site:      siteAssistant,
		Section:   "assistant",
		Title:     "RAG Assistant",
		RequestID: middleware.GetReqID(r.Context()),
		Models:    h.modelCfg.Models,
		Settings:  toSettingsView(sess.Settings()),
		Pending:   pendingView{Pages: pages, Files: files},
	}
}

func (h *Handler) consultView(r *http.Request, sess *session.Session, section, title string) *viewData {
	return &viewData{
		Site:      siteConsult,
		Section:   section,
		Title:     title,
		RequestID: middleware.GetReqID(r.Context()),
		Models:    h.modelCfg.Models,
		Settings:  toSettingsView(sess.Settings()),
	}
}

func (h *Handler) consultationView(r *http.Request, sess *session.Session) *viewData {
	data := h.consultView(r, sess, "consultation", "AI legal consultation")
	data.Placeholder = exampleQuestions[sess.NextExample(len(exampleQuestions))]
	return data
}

// applySettings merges submitted model settings into the session. Absent
// fields keep their current value.
func (h *Handler) applySettings(r *http.Request, sess *session.Session) error {
	s := sess.Settings()

	if v := strings.TrimSpace(r.FormValue("model")); v != "" {
		s.Model = v
	}
	if v := strings.TrimSpace(r.FormValue("temperature")); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || t > 1 {
			return fmt.Errorf("%w: temperature must be a number between 0 and 1", entity.ErrInvalidParameter)
		}
		s.Temperature = t
	}
	if v := strings.TrimSpace(r.FormValue("k")); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 1 {
			return fmt.Errorf("%w: k must be a positive integer", entity.ErrInvalidParameter)
		}
		s.K = k
	}
	s.APIKey = strings.TrimSpace(r.FormValue("api_key"))

	if r.FormValue("clear_api_key") != "" {
		sess.ClearAPIKey()
		s.APIKey = ""
	}
	sess.UpdateSettings(s)
	return nil
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrNoDocuments), errors.Is(err, entity.ErrDocumentsDiscarded),
		entity.IsFileError(err):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
