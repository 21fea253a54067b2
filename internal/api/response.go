package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// Response represents a standard API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message string, code ...string) error {
	errInfo := ErrorInfo{
		Message: message,
	}
	if len(code) > 0 {
		errInfo.Code = code[0]
	}

	return WriteJSON(w, status, Response{
		Success: false,
		Error:   &errInfo,
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message, "NOT_FOUND")
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, "BAD_REQUEST")
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, "UNAUTHORIZED")
}

// StatusOf maps a calendar error to its HTTP status and error code.
//
//	invalid_input      400 BAD_REQUEST
//	unsupported_year   422 UNSUPPORTED_YEAR
//	other kinds        500 with the kind as code
//	untyped errors     500 INTERNAL_ERROR
func StatusOf(err error) (int, string) {
	switch kind := calendar.KindOf(err); kind {
	case calendar.KindInvalidInput:
		return http.StatusBadRequest, "BAD_REQUEST"
	case calendar.KindUnsupportedYear:
		return http.StatusUnprocessableEntity, "UNSUPPORTED_YEAR"
	case "":
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	default:
		return http.StatusInternalServerError, strings.ToUpper(string(kind))
	}
}

// WriteCalendarError writes err using the status from StatusOf. Untyped
// errors are reported with a generic message.
func WriteCalendarError(w http.ResponseWriter, err error) error {
	status, code := StatusOf(err)
	msg := err.Error()
	if code == "INTERNAL_ERROR" {
		msg = "Internal server error"
	}
	return WriteError(w, status, msg, code)
}
