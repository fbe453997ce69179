package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/docuvault/redactsvc/internal/core/domain"
	"github.com/docuvault/redactsvc/internal/core/ports"
	"github.com/docuvault/redactsvc/internal/infrastructure/report/xlsxreport"
	"github.com/docuvault/redactsvc/internal/observability/metrics"
)

type Router struct {
	ingestor ports.DocumentIngestor
	reader   ports.DocumentReader
	reviews  ports.ReviewService
	redactor ports.RedactionService
	profiles ports.ProfileService

	metrics             *metrics.HTTPServerMetrics
	jwtSecret           string
	rateLimitRPS        int
	rateLimitBurst      int
	feedbackExportLimit int
}

type Options struct {
	Metrics             *metrics.HTTPServerMetrics
	JWTSecret           string
	RateLimitRPS        int
	RateLimitBurst      int
	FeedbackExportLimit int
}

func NewRouter(
	ingestor ports.DocumentIngestor,
	reader ports.DocumentReader,
	reviews ports.ReviewService,
	redactor ports.RedactionService,
	profiles ports.ProfileService,
	opts Options,
) *Router {
	return &Router{
		ingestor:            ingestor,
		reader:              reader,
		reviews:             reviews,
		redactor:            redactor,
		profiles:            profiles,
		metrics:             opts.Metrics,
		jwtSecret:           opts.JWTSecret,
		rateLimitRPS:        opts.RateLimitRPS,
		rateLimitBurst:      opts.RateLimitBurst,
		feedbackExportLimit: opts.FeedbackExportLimit,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/openapi.json", rt.serveOpenAPI)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("/v1/documents", rt.requireOperator(rt.uploadDocument))
	mux.HandleFunc("/v1/documents/", rt.documentSubresource)
	mux.HandleFunc("/v1/profiles", rt.profileCollection)
	mux.HandleFunc("/v1/profiles/", rt.profileResource)
	mux.HandleFunc("/v1/reports/feedback.xlsx", rt.exportFeedback)

	var handler http.Handler = mux
	handler = recoveryMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst, rt.metrics)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		r.FormValue("doc_type_hint"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload("api")
	}
	writeJSON(w, http.StatusAccepted, doc)
}

// documentSubresource dispatches /v1/documents/{id}[/analysis|review|redaction|redacted].
func (rt *Router) documentSubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch sub {
	case "":
		rt.getDocument(w, r, id)
	case "analysis":
		rt.getAnalysis(w, r, id)
	case "review":
		rt.requireOperator(func(w http.ResponseWriter, r *http.Request) {
			rt.submitReview(w, r, id)
		})(w, r)
	case "redaction":
		rt.requireOperator(func(w http.ResponseWriter, r *http.Request) {
			rt.redactDocument(w, r, id)
		})(w, r)
	case "redacted":
		rt.getRedactedText(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
	}
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) getAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	result, err := rt.reader.GetAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) submitReview(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var feedback domain.ReviewFeedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	feedback.DocumentID = id
	if feedback.Reviewer == "" {
		feedback.Reviewer = operatorFromContext(r.Context())
	}

	out, err := rt.reviews.SubmitReview(r.Context(), feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (rt *Router) redactDocument(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Elements []string `json:"elements"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
	}

	record, err := rt.redactor.Redact(r.Context(), id, operatorFromContext(r.Context()), req.Elements)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRedaction("api", record.MaskedCount)
	}
	writeJSON(w, http.StatusCreated, record)
}

func (rt *Router) getRedactedText(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rc, err := rt.redactor.OpenArtifact(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "redacted artifact not found"})
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

func (rt *Router) profileCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		profiles, err := rt.profiles.ListProfiles(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
	case http.MethodPut, http.MethodPost:
		rt.requireOperator(rt.putProfile)(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) putProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.DocTypeProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	out, err := rt.profiles.PutProfile(r.Context(), profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) profileResource(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/v1/profiles/")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "profile name is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := rt.profiles.GetProfile(r.Context(), name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodPut:
		rt.requireOperator(func(w http.ResponseWriter, r *http.Request) {
			var profile domain.DocTypeProfile
			if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
				return
			}
			// Path segment names the profile; the body cannot rename it.
			profile.Name = name
			out, err := rt.profiles.PutProfile(r.Context(), profile)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})(w, r)
	case http.MethodDelete:
		rt.requireOperator(func(w http.ResponseWriter, r *http.Request) {
			if err := rt.profiles.DeleteProfile(r.Context(), name); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) exportFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit := rt.feedbackExportLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	feedback, err := rt.reviews.ListFeedback(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	raw, err := xlsxreport.FeedbackWorkbook(feedback)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="feedback.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
