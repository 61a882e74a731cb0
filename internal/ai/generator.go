package ai

import (
	"context"
	"errors"
)

// Backend starts conversation sessions against a hosted generative model.
// Starting a session does not contact the backend; the first request is made
// by Session.SendMessage.
type Backend interface {
	Name() string
	StartSession(systemInstruction string, creativity float64) (Session, error)
}

// Session is one ongoing exchange with the backend. It remembers earlier
// turns, so each SendMessage continues the same conversation.
//
// SendMessage returns ErrEmptyResponse when the backend answers without text
// and a *TransportError for every other failure.
type Session interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// ErrEmptyResponse is returned when the backend replied but produced no text.
var ErrEmptyResponse = errors.New("API returned an empty response")

// TransportError wraps any network, auth or content-policy failure reported by
// a backend client, so callers never see provider-specific error types.
type TransportError struct {
	Backend string
	Err     error
}

func (e *TransportError) Error() string {
	return "the request to the AI service failed (" + e.Backend + "): " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// normalize maps a raw client error onto the two adapter error kinds.
func normalize(backend string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEmptyResponse) {
		return ErrEmptyResponse
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return &TransportError{Backend: backend, Err: err}
}
