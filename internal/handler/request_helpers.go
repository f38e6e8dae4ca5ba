package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/osse101/statsgate/internal/logger"
)

// queryParam returns a trimmed query parameter, or "" when absent.
func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// queryFlag reports whether a query parameter is exactly "true".
func queryFlag(r *http.Request, name string) bool {
	return queryParam(r, name) == "true"
}

// decodeBody decodes a JSON request body into dst. A body that cannot be
// decoded leaves dst at its zero value so the service's own validation
// produces the caller-facing error.
func decodeBody(r *http.Request, dst interface{}, actionName string) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromContext(r.Context()).Debug(LogMsgDecodeFailed, "action", actionName, "error", err)
	}
}
