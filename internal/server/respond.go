package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSKU:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeAssetNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNotReady:
		return http.StatusServiceUnavailable
	case errors.ErrCodeGenerationFailed:
		return http.StatusBadGateway
	case errors.ErrCodeDecodeFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes the user-safe message and code for err. Internal
// detail stays in the log, never in the response body.
func respondError(w http.ResponseWriter, logger *log.Logger, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	respondJSON(w, status, errorBody{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

// respondImage writes raw image bytes, sniffing the content type.
func respondImage(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
