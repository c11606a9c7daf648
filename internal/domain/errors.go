package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrLLMTimeout          = errors.New("llm timeout")
	ErrLLMTransport        = errors.New("llm transport failure")
	ErrParse               = errors.New("parse error")
	ErrSchemaValidation    = errors.New("schema validation failed")
	ErrAgentFailed         = errors.New("agent failed")
	ErrPublishTransient    = errors.New("transient publish failure")
	ErrPublishFatal        = errors.New("fatal publish failure")
	ErrLicenseGate         = errors.New("license does not allow this feature")
	ErrNotPublishable      = errors.New("post is not publishable")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrEmptyContent        = errors.New("content is empty")
	ErrConcurrentUpdate    = errors.New("post changed concurrently")
)

type InvalidTransitionError struct {
	PostID        string
	From          ApprovalStatus
	PublishStatus PublishStatus
	Action        ApprovalAction
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s post %s (approval=%s, publish=%s)", e.Action, e.PostID, e.From, e.PublishStatus)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// LLMError is a gateway failure. Timeout distinguishes an expired deadline from a broken connection.
type LLMError struct {
	Timeout bool
	Err     error
}

func (e *LLMError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("llm timeout: %v", e.Err)
	}
	return fmt.Sprintf("llm transport: %v", e.Err)
}

func (e *LLMError) Unwrap() error { return e.Err }

func (e *LLMError) Is(target error) bool {
	if e.Timeout {
		return target == ErrLLMTimeout
	}
	return target == ErrLLMTransport
}

type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse llm response: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

type SchemaValidationError struct {
	Field  string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *SchemaValidationError) Is(target error) bool { return target == ErrSchemaValidation }

// AgentFailedError is returned once an agent has exhausted its attempts on bad output.
type AgentFailedError struct {
	Agent    string
	Attempts int
	Err      error
}

func (e *AgentFailedError) Error() string {
	return fmt.Sprintf("%s agent failed after %d attempts: %v", e.Agent, e.Attempts, e.Err)
}

func (e *AgentFailedError) Unwrap() error { return e.Err }

func (e *AgentFailedError) Is(target error) bool { return target == ErrAgentFailed }

// StageError records which pipeline stage failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

type PublishErrorKind int

const (
	PublishErrorTransient PublishErrorKind = iota
	PublishErrorFatal
)

func (k PublishErrorKind) String() string {
	if k == PublishErrorTransient {
		return "transient"
	}
	return "fatal"
}

type PublishError struct {
	Platform   Platform
	Kind       PublishErrorKind
	StatusCode int
	Err        error
}

func (e *PublishError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s publish (%s, status %d): %v", e.Platform, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s publish (%s): %v", e.Platform, e.Kind, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

func (e *PublishError) Is(target error) bool {
	switch e.Kind {
	case PublishErrorTransient:
		return target == ErrPublishTransient
	default:
		return target == ErrPublishFatal
	}
}

func NewTransientError(platform Platform, statusCode int, err error) *PublishError {
	return &PublishError{Platform: platform, Kind: PublishErrorTransient, StatusCode: statusCode, Err: err}
}

func NewFatalError(platform Platform, statusCode int, err error) *PublishError {
	return &PublishError{Platform: platform, Kind: PublishErrorFatal, StatusCode: statusCode, Err: err}
}

// IsTransientPublish reports whether err is a publish failure worth one more attempt.
// Errors that carry no classification are treated as fatal.
func IsTransientPublish(err error) bool {
	return errors.Is(err, ErrPublishTransient)
}

type LicenseGateError struct {
	Feature string
	Tier    string
}

func (e *LicenseGateError) Error() string {
	return fmt.Sprintf("feature %q requires a higher license tier (current: %s)", e.Feature, e.Tier)
}

func (e *LicenseGateError) Is(target error) bool { return target == ErrLicenseGate }
