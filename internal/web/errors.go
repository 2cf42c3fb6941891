package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as coded, user-friendly messages
//   - Formatted for the client: JSON for API calls, an HTML page for the
//     browser upload form
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err), which derives the status from the code
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in appropriate format for the client

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/doctranslate/internal/core"
	"github.com/JonMunkholm/doctranslate/internal/logging"
	"github.com/JonMunkholm/doctranslate/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusByCode maps error codes to HTTP status codes. Codes not listed
// (including ERR000) are server errors.
var statusByCode = map[string]int{
	"FILE001": http.StatusRequestEntityTooLarge,
	"FILE004": http.StatusBadRequest,
	"FILE005": http.StatusBadRequest,
	"FILE006": http.StatusBadRequest,
	"LANG001": http.StatusBadRequest,
	"PKG001":  http.StatusUnprocessableEntity,
	"PKG002":  http.StatusInternalServerError,
	"PKG003":  http.StatusRequestEntityTooLarge,
	"UPL002":  http.StatusServiceUnavailable,
	"UPL004":  http.StatusRequestTimeout,
	"UPL005":  http.StatusGatewayTimeout,
	"JOB001":  http.StatusNotFound,
	"JOB002":  http.StatusNotFound,
	"RATE001": http.StatusTooManyRequests,
	"DB004":   http.StatusServiceUnavailable,
	"DB006":   http.StatusGatewayTimeout,
}

// statusForCode returns the HTTP status for an error code.
func statusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (JSON or HTML).
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	statusCode := statusForCode(userMsg.Code)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
	} else {
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error page for browser form submissions.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	// API routes always answer in JSON
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}

	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}

	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
