package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/doeshing/irisform/internal/application/form"
	"github.com/doeshing/irisform/internal/application/render"
	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/ports"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Options configures NewHandler.
type Options struct {
	Controller *form.Controller
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  ports.Logger
}

type handler struct {
	controller *form.Controller
	logger     ports.Logger
}

type fieldInput struct {
	Name  domain.Field
	Label string
	Value string
}

type pageData struct {
	Fields  []fieldInput
	Samples []domain.Sample
	Result  render.ResultView
	History render.HistoryView
	Submit  render.SubmitControlView
	Alert   string
}

// NewHandler builds the routes of the browser surface around one controller.
func NewHandler(opts Options) http.Handler {
	h := &handler{controller: opts.Controller, logger: opts.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /submit", h.submit)
	mux.HandleFunc("POST /sample/{name}", h.sample)
	mux.HandleFunc("POST /history/clear", h.clearHistory)
	mux.Handle("/api/history", withCORS(http.HandlerFunc(h.apiHistory)))
	mux.HandleFunc("GET /healthz", h.healthz)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	return withRecovery(opts.Logger, withLogging(opts.Logger, mux))
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, h.controller.View())
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	args := make(map[string]string, domain.FeatureCount)
	for _, field := range domain.Fields {
		args[string(field)] = r.PostForm.Get(string(field))
	}

	view, err := h.controller.Dispatch(r.Context(), form.TriggerSubmit, args)
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderPage(w, http.StatusUnprocessableEntity, view)
	case errors.Is(err, form.ErrSubmitInProgress):
		h.renderPage(w, http.StatusConflict, view)
	case err != nil:
		h.fail(w, err)
	default:
		h.renderPage(w, http.StatusOK, view)
	}
}

func (h *handler) sample(w http.ResponseWriter, r *http.Request) {
	view, err := h.controller.Dispatch(r.Context(), form.TriggerSample, map[string]string{
		form.ArgSample: r.PathValue("name"),
	})
	if errors.Is(err, domain.ErrUnknownSample) {
		view.Alert = err.Error()
		h.renderPage(w, http.StatusNotFound, view)
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	h.renderPage(w, http.StatusOK, view)
}

func (h *handler) clearHistory(w http.ResponseWriter, r *http.Request) {
	view, err := h.controller.Dispatch(r.Context(), form.TriggerClearHistory, nil)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.renderPage(w, http.StatusOK, view)
}

func (h *handler) apiHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.controller.View().HistoryLog)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) renderPage(w http.ResponseWriter, status int, view form.View) {
	data := pageData{
		Samples: domain.Samples(),
		Result:  view.Result,
		History: view.History,
		Submit:  view.Submit,
		Alert:   view.Alert,
	}
	for _, field := range domain.Fields {
		data.Fields = append(data.Fields, fieldInput{Name: field, Label: field.Label(), Value: view.Fields[field]})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil && h.logger != nil {
		h.logger.Error("render page", err, nil)
	}
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	if h.logger != nil {
		h.logger.Error("request failed", err, nil)
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
