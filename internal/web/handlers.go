package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/doctranslate/internal/core"
	"github.com/JonMunkholm/doctranslate/internal/logging"
	"github.com/JonMunkholm/doctranslate/internal/translate"
	"github.com/JonMunkholm/doctranslate/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead is allowed on top of the file size limit for the form
// boundaries and the language field.
const multipartOverhead = 1 << 20

// maxFormMemory is how much of a multipart form is buffered in memory; the
// rest spills to temporary files.
const maxFormMemory = 32 << 20

// Response headers carrying transform statistics.
const (
	headerJobID               = "X-Job-ID"
	headerFilesProcessed      = "X-Files-Processed"
	headerFragmentsTranslated = "X-Fragments-Translated"
	headerTargetLanguage      = "X-Target-Language"
)

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := templates.IndexPage{
		Languages:       translate.SupportedLanguages(),
		DefaultLanguage: translate.DefaultLanguage,
		Kinds:           s.service.ListKinds(),
		MaxFileSizeMB:   s.cfg.Upload.MaxFileSize >> 20,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(page).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleHealth reports liveness for load balancers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "healthy",
		"service": "doctranslate",
		"version": core.Version,
	})
}

// handleListLanguages returns the named target languages.
func (s *Server) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"default":   translate.DefaultLanguage,
		"languages": translate.SupportedLanguages(),
	})
}

// handleListKinds returns the supported document kinds.
func (s *Server) handleListKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.ListKinds())
}

// StatusResponse describes the server's current load.
type StatusResponse struct {
	Transforms     core.TransformLimiterStatus `json:"transforms"`
	HistoryEnabled bool                        `json:"historyEnabled"`
}

// handleStatus returns transform slot usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatusResponse{
		Transforms:     s.service.LimiterStatus(),
		HistoryEnabled: s.service.HistoryEnabled(),
	})
}

// handleTranslate accepts a multipart upload with a "file" part and an
// optional "language" field, and responds with the translated document as
// an attachment.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		if isBodyTooLarge(err) {
			s.respondError(w, r, fmt.Errorf("file too large: request exceeds limit of %d bytes", maxSize))
			return
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			s.respondError(w, r, errors.New("no file provided"))
			return
		}
		s.respondError(w, r, fmt.Errorf("read form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errors.New("no file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Translate(ctx, core.TranslateRequest{
		FileName: header.Filename,
		Data:     data,
		Language: r.FormValue("language"),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", result.MediaType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	h.Set("Content-Length", strconv.Itoa(len(result.Data)))
	h.Set(headerJobID, result.JobID)
	h.Set(headerFilesProcessed, strconv.Itoa(result.Stats.PartsProcessed))
	h.Set(headerFragmentsTranslated, strconv.Itoa(result.Stats.FragmentsTranslated))
	h.Set(headerTargetLanguage, result.Language)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(result.Data); err != nil {
		logging.FromContext(r.Context()).Warn("write translated document", "job_id", result.JobID, "error", err)
	}
}

// handleListJobs returns a page of recorded jobs, newest first.
// Query parameters: limit (default 50, max 500) and offset.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultJobPageSize)
	offset := parseIntParam(r, "offset", 0)

	page, err := s.service.ListJobs(r.Context(), limit, offset)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, page)
}

// handleGetJob returns one recorded job.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := s.service.GetJob(r.Context(), jobID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, job)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	str := r.URL.Query().Get(name)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	return val
}

// isBodyTooLarge reports whether err came from http.MaxBytesReader.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
