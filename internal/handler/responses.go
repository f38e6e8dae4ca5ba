package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/statsgate/internal/domain"
	"github.com/osse101/statsgate/internal/logger"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error *domain.APIError `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"unknown","message":"` + domain.ErrMsgInternal + `"}}`))
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondRaw sends an already encoded JSON body.
func respondRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondServiceError writes err as {"error":{type,message}} with the status
// its type maps to. Errors that were never classified become a generic 500
// and are logged with their cause.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		log.Error(LogMsgUnclassifiedError, "operation", opName, "error", err)
	}
	apiErr = domain.AsAPIError(err)
	status := domain.StatusFromError(apiErr.Type)

	if status >= http.StatusInternalServerError {
		log.Error(LogMsgRequestFailed, "operation", opName, "type", apiErr.Type, "error", err)
	} else {
		log.Warn(LogMsgRequestFailed, "operation", opName, "type", apiErr.Type, "error", err)
	}
	respondJSON(w, status, ErrorResponse{Error: apiErr})
}
