package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyTemplate       = errors.New("template cannot be empty")
	ErrNotInitialized      = errors.New("llm interface not initialized")
	ErrNoCurrentPrompt     = errors.New("no current prompt")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// MissingCredentialError is returned when a provider needs an API key and none is set
type MissingCredentialError struct {
	Provider string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("api key not set for provider %s", e.Provider)
}

// TransportError wraps a failure to reach the completion endpoint
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned for any non-2xx response
type HTTPStatusError struct {
	Code int
	Body string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("endpoint returned status %d: %s", e.Code, e.Body)
}

type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed response: " + e.Reason
}

type TemplateNotFoundError struct {
	Index int
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("no template at index %d", e.Index)
}

func IsMissingCredentialError(err error) bool {
	var target *MissingCredentialError
	return errors.As(err, &target)
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsHTTPStatusError reports whether err is an HTTPStatusError and returns its status code
func IsHTTPStatusError(err error) (int, bool) {
	var target *HTTPStatusError
	if errors.As(err, &target) {
		return target.Code, true
	}
	return 0, false
}

func IsMalformedResponseError(err error) bool {
	var target *MalformedResponseError
	return errors.As(err, &target)
}

func IsTemplateNotFoundError(err error) bool {
	var target *TemplateNotFoundError
	return errors.As(err, &target)
}
