// Package transport carries judge API calls over HTTP.
package transport

import (
	"errors"
	"fmt"
)

// TransportError is an HTTP-level or network failure talking to the judge.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Status     string
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("judge request failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("judge request failed: %s (%d): %v", e.StatusText(), e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("judge request failed: %s (%d)", e.StatusText(), e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusText is the short status shown to the user, "error" when the request
// never got a response.
func (e *TransportError) StatusText() string {
	if e.Status != "" {
		return e.Status
	}
	return "error"
}

// AsTransportError finds a *TransportError in err's chain.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
