package kucoin

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// CodeSuccess is the business code KuCoin returns on successful calls.
const CodeSuccess = "200000"

var (
	ErrInvalidGranularity = errors.New("invalid granularity")
	ErrNoCandles          = errors.New("cannot retrieve candle data")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrSymbolNotFound     = errors.New("symbol not found")

	errMissingData = errors.New("missing data")
)

// APIError is returned for non-200 HTTP statuses and for business codes other
// than CodeSuccess.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("kucoin: http status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("kucoin: http status %d, code %s: %s", e.StatusCode, e.Code, e.Message)
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	var payload struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Code != "" || payload.Msg != "") {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Msg
		return apiErr
	}
	apiErr.Message = string(body)
	return apiErr
}
