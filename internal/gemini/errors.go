package gemini

import (
	"context"
	"errors"
	"strings"
)

// Kind groups service failures by what the user can do about them.
type Kind int

const (
	KindUnknown Kind = iota
	KindRateLimited
	KindAuth
	KindUnavailable
	KindMalformedResponse
	// KindInvalidInput covers request data rejected before any call, such as
	// an undecodable reference image.
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	case KindUnavailable:
		return "unavailable"
	case KindMalformedResponse:
		return "malformed_response"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is returned for every failed Generate call.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	ErrRateLimited       = &Error{Kind: KindRateLimited}
	ErrAuth              = &Error{Kind: KindAuth}
	ErrUnavailable       = &Error{Kind: KindUnavailable}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrUnknown           = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	if e.Message == "" {
		return "gemini: " + e.Kind.String()
	}
	return "gemini " + e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrRateLimited)
// works on classified errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// UserMessage is the hint shown to end users.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindRateLimited:
		return "The generation service is rate limited or out of quota. Wait a minute and try again, or switch to another API key."
	case KindAuth:
		return "The API key is missing or not valid. Check GEMINI_API_KEY and try again."
	case KindUnavailable:
		return "The configured model is not available for this key or region. Pick another model with GEMINI_MODEL."
	case KindMalformedResponse:
		return "The service returned an incomplete set of blueprints. Try generating again."
	case KindInvalidInput:
		return "The reference photo could not be read. Upload it again as a JPEG or PNG."
	default:
		return "Generation failed. Please try again later."
	}
}

// KindOf reports the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return KindUnknown
}

var (
	rateLimitSignals   = []string{"429", "resource_exhausted", "resource exhausted", "rate limit", "quota", "too many requests"}
	authSignals        = []string{"401", "403", "permission_denied", "unauthenticated", "api key not valid", "api_key_invalid", "forbidden"}
	unavailableSignals = []string{"404", "not_found", "not found", "not supported", "not available", "user location", "failed_precondition"}
)

// classify maps a transport or service error onto a Kind by its message.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	kind := KindUnknown
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindUnknown
	case containsAny(lower, rateLimitSignals):
		kind = KindRateLimited
	case containsAny(lower, authSignals):
		kind = KindAuth
	case containsAny(lower, unavailableSignals):
		kind = KindUnavailable
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
