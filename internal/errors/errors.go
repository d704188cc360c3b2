// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Custom error types and error codes for MCP responses.

package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
)

type ErrorCode string

const (
	CodeInvalidInput        ErrorCode = "INVALID_INPUT"
	CodeInvalidSnapshot     ErrorCode = "INVALID_SNAPSHOT"
	CodeInvalidConfig       ErrorCode = "INVALID_CONFIG"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	CodeRateLimited         ErrorCode = "RATE_LIMITED"
	CodeTimeout             ErrorCode = "TIMEOUT"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

type SuitabilityError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *SuitabilityError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func New(code ErrorCode, msg, hint string, details map[string]any) *SuitabilityError {
	return &SuitabilityError{Code: code, Message: msg, Hint: hint, Details: sanitize(details)}
}

func NewInvalidInput(msg, hint string, details map[string]any) *SuitabilityError {
	return New(CodeInvalidInput, msg, hint, details)
}

func NewInvalidSnapshot(err error) *SuitabilityError {
	return New(CodeInvalidSnapshot, "metric snapshot failed validation", "check the metric source for negative or missing values", map[string]any{"cause": err})
}

func NewNotFound(what string, details map[string]any) *SuitabilityError {
	return New(CodeNotFound, what+" not found", "list candidates with score_districts", details)
}

func NewProviderUnavailable(err error) *SuitabilityError {
	return New(CodeProviderUnavailable, "metric source unavailable", "check metrics_dsn and database reachability", map[string]any{"cause": err})
}

func NewRateLimited(action string) *SuitabilityError {
	return New(CodeRateLimited, "rate limit exceeded", "retry later or raise rate_limit_per_minute", map[string]any{"action": action})
}

func NewTimeout(msg string) *SuitabilityError {
	return New(CodeTimeout, msg, "retry or increase statement_timeout_ms", nil)
}

func NewInternal(err error) *SuitabilityError {
	if err == nil {
		return New(CodeInternalError, "internal error", "see logs", nil)
	}
	return New(CodeInternalError, "internal error", "see logs", map[string]any{"cause": err})
}

// ToToolError converts any error to a SuitabilityError; deadline errors become
// timeouts and unknown errors are wrapped as internal errors with a scrubbed cause.
func ToToolError(err error) *SuitabilityError {
	if err == nil {
		return nil
	}
	var se *SuitabilityError
	if stderrors.As(err, &se) {
		return se
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewTimeout("operation timed out")
	}
	return NewInternal(err)
}

func sanitize(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		out[k] = scrub(fmt.Sprint(v))
	}
	return out
}

var (
	urlCreds   = regexp.MustCompile(`([a-z][a-z0-9+.-]*://)[^/@\s]*@`)
	mysqlCreds = regexp.MustCompile(`([\w.-]+):[^@\s/]*@(tcp|unix)\(`)
	keyValue   = regexp.MustCompile(`(?i)\b(password|pwd)=[^\s&]*`)
)

// scrub masks credentials in DSNs and key=value secrets.
func scrub(s string) string {
	s = urlCreds.ReplaceAllString(s, "${1}***:***@")
	s = mysqlCreds.ReplaceAllString(s, "${1}:***@${2}(")
	return keyValue.ReplaceAllString(s, "${1}=***")
}
