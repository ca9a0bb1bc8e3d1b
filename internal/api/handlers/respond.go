package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/agenda-app/server/internal/audit"
	"github.com/agenda-app/server/internal/auth"
	"github.com/agenda-app/server/internal/metrics"
	"github.com/agenda-app/server/internal/validation"
)

var errUnauthenticated = errors.New("request is not authenticated")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type messageResponse struct {
	Message string `json:"message"`
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return r.PathValue(key)
}

// pathID parses the {id} wildcard as a positive integer.
func pathID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(pathParam(r, "id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Error{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

func currentUser(r *http.Request) (int64, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0, errUnauthenticated
	}
	return id, nil
}

// decodeError marks a body that is not a JSON object.
type decodeError struct {
	err error
}

func (e decodeError) Error() string { return "invalid JSON body: " + e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

// decodeJSON reads a single JSON object into dst. An empty body decodes
// as {} so partial updates may omit every key.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return maxErr
		}
		return decodeError{err: err}
	}
	if dec.More() {
		return decodeError{err: fmt.Errorf("unexpected data after JSON object")}
	}
	return nil
}

var auditLog audit.Logger

// recordMutation counts and audits a committed write.
func recordMutation(r *http.Request, userID int64, resource, operation string, id int64) {
	metrics.RecordMutation(resource, operation)
	auditLog.Log(r.Context(), audit.Entry{
		Action:       operation,
		UserID:       userID,
		ResourceType: resource,
		ResourceID:   id,
		IPAddress:    audit.ClientIP(r),
	})
}
