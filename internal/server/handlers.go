package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/piwi3910/RailCut/internal/assistant"
	"github.com/piwi3910/RailCut/internal/engine"
	"github.com/piwi3910/RailCut/internal/export"
	"github.com/piwi3910/RailCut/internal/model"
)

// maxBodyBytes caps request bodies; a large project is a few kilobytes.
const maxBodyBytes = 1 << 20

// Assistant drafts request forms from free text.
type Assistant interface {
	Configured() bool
	ParseText(ctx context.Context, description string) (model.FormDraft, error)
}

type handler struct {
	assistant Assistant
	logger    *log.Logger
}

// NewHandler builds the HTTP API. assistant may be nil, in which case
// /api/parse-text answers 503. Browsers may call the API from
// allowedOrigins; an empty list allows same-origin calls only.
func NewHandler(a Assistant, allowedOrigins []string, logger *log.Logger) http.Handler {
	h := &handler{assistant: a, logger: logger}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(logRequests(logger))
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders:   []string{"Content-Disposition", RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", h.healthz)
	r.Route("/api", func(r chi.Router) {
		r.Post("/parse-text", h.parseText)
		r.Post("/process-data", h.processData)
		r.Post("/draw-pdf", h.drawPDF)
		r.Post("/export/xlsx", h.exportXLSX)
		r.Post("/export/labels", h.exportLabels)
	})
	return r
}

type descriptionRequest struct {
	Description string `json:"description"`
}

type processResponse struct {
	Status string     `json:"status"`
	Data   model.Plan `json:"data"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) parseText(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil || !h.assistant.Configured() {
		writeDetail(w, http.StatusServiceUnavailable, "The text analysis service is not configured.")
		return
	}
	var req descriptionRequest
	if err := readJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := h.assistant.ParseText(r.Context(), req.Description)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			writeDetail(w, http.StatusServiceUnavailable, "The text analysis service is not configured.")
			return
		}
		h.logger.Error("text analysis failed", "id", RequestID(r.Context()), "err", err)
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error while analysing the text: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *handler) processData(w http.ResponseWriter, r *http.Request) {
	var req model.Request
	if err := readJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := engine.Process(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, processResponse{Status: "success", Data: plan})
}

func (h *handler) drawPDF(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "application/pdf", "guardrail_plan.pdf", export.WritePlanPDF)
}

func (h *handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "guardrail_cut_list.xlsx", export.WriteCutListXLSX)
}

func (h *handler) exportLabels(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "application/pdf", "guardrail_labels.pdf", export.WriteLabels)
}

// render decodes a plan from the body and streams the document produced by
// write. The document is buffered so a rendering failure still yields a
// clean error response.
func (h *handler) render(w http.ResponseWriter, r *http.Request, contentType, filename string, write func(io.Writer, model.Plan) error) {
	var plan model.Plan
	if err := readJSON(r, &plan); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, plan); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// fail maps an error to a response. Problems with the request itself are
// reported to the caller; anything else is logged and hidden.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var validation *model.ValidationError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, engine.ErrStructureMismatch),
		errors.Is(err, model.ErrInvalidPlate),
		errors.Is(err, export.ErrEmptyPlan),
		errors.Is(err, export.ErrNoLabels):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred.")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func readJSON(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("cannot read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("request body is empty")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
