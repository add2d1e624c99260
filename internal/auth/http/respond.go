package http

import (
	"net/http"

	"github.com/gatehouse/gatehouse/pkg/httpx"
)

// writeInternal reports an unexpected failure. The stable message is always
// present; the underlying error detail is exposed only outside production
// so operators can debug locally without leaking internals to clients.
func writeInternal(w http.ResponseWriter, message string, err error, exposeDetail bool) {
	detail := "Internal server error"
	if exposeDetail && err != nil {
		detail = err.Error()
	}
	httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
		Message: message,
		Error:   detail,
	})
}
