package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPersonas is returned when the persona selection is empty before any
// attempt is made.
var ErrNoPersonas = errors.New("orchestrator: no personas to try")

// AttemptError captures one failed persona attempt.
type AttemptError struct {
	Client string
	Err    error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("client=%s: %v", e.Client, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// ExhaustedError is the terminal failure: every persona was tried and none
// produced a usable stream.
type ExhaustedError struct {
	Attempts []AttemptError
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all personas exhausted"
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return fmt.Sprintf("all personas exhausted after %d attempt(s): %s", len(e.Attempts), strings.Join(parts, "; "))
}

// TokenRequiredError marks a persona skipped because its policy demands a
// proof-of-origin token and no acquisition path exists.
type TokenRequiredError struct {
	Client   string
	Protocol string
}

func (e *TokenRequiredError) Error() string {
	return fmt.Sprintf("po token required: client=%s protocol=%s", e.Client, e.Protocol)
}

// PlayabilityError indicates an unplayable player response.
type PlayabilityError struct {
	Client string
	Status string
	Reason string
}

func (e *PlayabilityError) Error() string {
	return fmt.Sprintf("unplayable status=%s client=%s reason=%s", e.Status, e.Client, e.Reason)
}

func (e *PlayabilityError) RequiresLogin() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "LOGIN") || strings.Contains(s, "SIGN IN")
}

func (e *PlayabilityError) IsGeoRestricted() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "COUNTRY") ||
		strings.Contains(s, "REGION") ||
		strings.Contains(s, "LOCATION")
}

// NoStreamsError marks a persona whose response contained no usable stream
// after deciphering.
type NoStreamsError struct {
	Client string
}

func (e *NoStreamsError) Error() string {
	return fmt.Sprintf("no usable streams: client=%s", e.Client)
}
