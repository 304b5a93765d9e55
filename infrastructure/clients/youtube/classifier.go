package youtube

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrorClass tells the pool how to react to a failed attempt.
type ErrorClass int

const (
	// ErrorClassFatal errors are not retried with any credential.
	ErrorClassFatal ErrorClass = iota
	// ErrorClassTransient errors are remote failures unrelated to quota.
	ErrorClassTransient
	// ErrorClassQuota errors exhaust the credential and rotate to the next one.
	ErrorClassQuota
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassQuota:
		return "quota"
	case ErrorClassTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// ErrorClassifier maps a remote error to its class.
type ErrorClassifier func(error) ErrorClass

var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"rateLimitExceeded":     true,
	"dailyLimitExceeded":    true,
	"userRateLimitExceeded": true,
	"RATE_LIMIT_EXCEEDED":   true,
}

// ClassifyError inspects structured googleapi errors first and falls back to
// matching "quota" or "exceeded" in the message.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassFatal
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, item := range apiErr.Errors {
			if quotaReasons[item.Reason] {
				return ErrorClassQuota
			}
		}
		if apiErr.Code == http.StatusTooManyRequests || mentionsQuota(apiErr.Message) {
			return ErrorClassQuota
		}
		if apiErr.Code >= http.StatusInternalServerError {
			return ErrorClassTransient
		}
		return ErrorClassFatal
	}

	if errors.Is(err, context.Canceled) {
		return ErrorClassFatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTransient
	}
	if mentionsQuota(err.Error()) {
		return ErrorClassQuota
	}
	return ErrorClassTransient
}

func mentionsQuota(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "exceeded")
}
