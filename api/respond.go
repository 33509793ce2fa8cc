package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/huvtsp/alumni/internal/apperr"
	"github.com/huvtsp/alumni/internal/schema"
)

const (
	maxBodyBytes = 1 << 20
	defaultLimit = 50
	maxLimit     = 500
)

type errorResponse struct {
	Error string `json:"error"`
}

// listResponse is the envelope of paginated list endpoints.
type listResponse struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Items  any   `json:"items"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.String("error", err.Error()))
	}
}

// writeError maps err to a status through apperr. Internal failures are
// logged with their stack and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.As(err)
	status := e.Status()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestID(r.Context())),
			slog.String("error", err.Error()),
			slog.String("stack", string(e.StackTrace())),
		)
		writeJSON(w, errorResponse{Error: "internal server error"}, status)
		return
	}
	writeJSON(w, errorResponse{Error: e.Message}, status)
}

// decodeValid reads the request body, checks it against the named schema and
// decodes it into dst.
func decodeValid(r *http.Request, schemas *schema.Loader, name string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return apperr.InvalidInput("request body too large", err)
		}
		return apperr.InvalidInput("invalid request", err)
	}
	if schemas != nil {
		if err := schemas.Validate(r.Context(), name, body); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.InvalidInput("invalid JSON body", err)
	}
	return nil
}

// pagination reads limit and offset. Out of range values fall back to the
// defaults.
func pagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit = defaultLimit
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= maxLimit {
			limit = v
		}
	}
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// splitList parses a comma separated query value, dropping blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
