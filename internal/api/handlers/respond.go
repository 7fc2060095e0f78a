package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohits-web03/chatterbox/internal/apperror"
	"github.com/rohits-web03/chatterbox/internal/logging"
	"github.com/rohits-web03/chatterbox/internal/utils"
)

const maxJSONBody = 1 << 20

// errorWriter turns service errors into responses. Details of 5xx failures
// are logged and, outside production, echoed in the "stack" field.
type errorWriter struct {
	logger        logging.Logger
	exposeDetails bool
}

func (ew errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	status := appErr.StatusCode()

	payload := utils.ErrorPayload{Message: appErr.Message}
	if status >= http.StatusInternalServerError {
		ew.logger.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		if ew.exposeDetails {
			payload.Stack = appErr.Error()
		}
	}
	utils.JSONResponse(w, status, payload)
}

func methodNotAllowed(w http.ResponseWriter) {
	utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return false
	}
	return true
}

// NotFound answers every unrouted path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	path := r.RequestURI
	if path == "" {
		path = r.URL.Path
	}
	utils.ErrorResponse(w, http.StatusNotFound, "Not Found - "+path)
}
