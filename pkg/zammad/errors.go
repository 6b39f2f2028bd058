package zammad

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError describes a non-2xx response from the Zammad API.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("zammad: %d %s (%s)", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("zammad: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}

	var envelope struct {
		Error      string `json:"error"`
		ErrorHuman string `json:"error_human"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		if envelope.ErrorHuman != "" {
			apiErr.Detail = envelope.ErrorHuman
		}
	}
	return apiErr
}
