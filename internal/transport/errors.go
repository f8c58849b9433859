package transport

import (
	"errors"
	"fmt"
)

// Kind classifies why a turn request failed.
type Kind int

const (
	KindNetwork  Kind = iota + 1 // no response
	KindAuth                     // 401/403
	KindServer                   // other non-2xx
	KindProtocol                 // 2xx with an unreadable body
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	case KindProtocol:
		return "protocol"
	}
	return "unknown"
}

const genericFailure = "request failed"

// Error is returned by every Client operation that fails.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s error (HTTP %d): %s: %v", e.Kind, e.StatusCode, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s error (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the explanation shown in the chat for this failure.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNetwork:
		return "could not reach the agent, check your connection and try again"
	case KindAuth:
		return "your session is no longer valid, please sign in again"
	case KindProtocol:
		return "the agent sent a response that could not be read"
	}
	if e.Message == "" {
		return genericFailure
	}
	return e.Message
}

// KindOf returns the failure kind of err, or 0 if err is not a transport error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

func IsAuth(err error) bool {
	return KindOf(err) == KindAuth
}
