package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/athlete-imagery/internal/domain/selection"
	"github.com/riskibarqy/athlete-imagery/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Message    string
}

// errorMappings is checked in order; the first match wins. Anything
// unmatched is a 500.
var errorMappings = []struct {
	match  func(error) bool
	mapped mappedError
}{
	{
		match:  func(err error) bool { return errors.Is(err, usecase.ErrInvalidInput) || selection.IsRuleViolation(err) },
		mapped: mappedError{HTTPStatus: http.StatusBadRequest, Message: "Invalid request"},
	},
	{
		match:  func(err error) bool { return errors.Is(err, usecase.ErrNotFound) },
		mapped: mappedError{HTTPStatus: http.StatusNotFound, Message: "Not found"},
	},
	{
		match:  func(err error) bool { return errors.Is(err, usecase.ErrDependencyUnavailable) },
		mapped: mappedError{HTTPStatus: http.StatusServiceUnavailable, Message: "Image host temporarily unavailable"},
	},
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Message: "Server Error"}

// writeJSON encodes payload fully before touching w, so an encoding failure
// still produces a clean 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		buf.Reset()
		_, _ = buf.WriteString(`{"message":"Server Error"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError maps err to a status and a generic message. The underlying
// detail is included only when exposeDetail is set.
func writeError(w http.ResponseWriter, err error, exposeDetail bool) {
	mapped := mapError(err)
	body := errorResponse{Message: mapped.Message}
	if exposeDetail && err != nil {
		body.Error = err.Error()
	}
	writeJSON(w, mapped.HTTPStatus, body)
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, internalError.HTTPStatus, errorResponse{Message: internalError.Message})
}

func mapError(err error) mappedError {
	for _, m := range errorMappings {
		if m.match(err) {
			return m.mapped
		}
	}
	return internalError
}
