package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is a non-2xx response from the admin API. The backend sends a
// JSON body with a "message" or "error" string meant for display; whichever
// is present becomes Message.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed (status %d)", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newStatusError(statusCode int, body []byte) *StatusError {
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		message := strings.TrimSpace(string(body))
		if len(message) > 200 || strings.HasPrefix(message, "<") {
			message = ""
		}
		return &StatusError{Status: statusCode, Message: message}
	}

	message := decoded.Message
	if message == "" {
		message = decoded.Error
	}

	return &StatusError{Status: statusCode, Message: strings.TrimSpace(message)}
}

// IsStatus reports whether err is a StatusError with the given HTTP status.
func IsStatus(err error, statusCode int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == statusCode
}

func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
