package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrValidation marks input rejected client-side before any request
// was sent. No network round trip happened and no state changed.
var ErrValidation = errors.New("validation failed")

// APIError is a non-success response from the backend. Detail carries
// best-effort context extracted from the response body; when the body
// yields nothing useful, Detail falls back to the HTTP status text.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

// errorBody is the superset of error shapes the backend emits:
// FastAPI-style {"detail": ...} plus {"message": ...} and {"error": ...}
// variants.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// maxErrorBody bounds how much of an error response body is read when
// extracting detail.
const maxErrorBody = 64 * 1024

// newAPIError builds an APIError from a non-2xx response, extracting
// detail from the body when possible.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Detail:     http.StatusText(resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}

	switch {
	case eb.Detail != "":
		apiErr.Detail = eb.Detail
	case eb.Message != "":
		apiErr.Detail = eb.Message
	case eb.Error != "":
		apiErr.Detail = eb.Error
	}
	return apiErr
}
