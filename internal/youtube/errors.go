package youtube

import (
	"errors"
	"fmt"
)

// Kind categorizes upstream failures for display.
type Kind string

const (
	KindQuota      Kind = "quota"
	KindCredential Kind = "credential"
	KindOther      Kind = "other"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no key is configured.
	ErrMissingAPIKey = errors.New("youtube: API key is not configured")
	// ErrChannelNotFound is returned when channels.list yields no items.
	ErrChannelNotFound = errors.New("youtube: channel not found")
)

// Error is a categorized upstream failure. The core never retries these.
type Error struct {
	Kind    Kind
	Status  int
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("youtube %s error: %v", e.Kind, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("youtube %s error (%d %s): %s", e.Kind, e.Status, e.Reason, e.Message)
	default:
		return fmt.Sprintf("youtube %s error (%d): %s", e.Kind, e.Status, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the category of err, or "" if it is not an upstream error.
func KindOf(err error) Kind {
	var yerr *Error
	if errors.As(err, &yerr) {
		return yerr.Kind
	}
	return ""
}

// classify maps an HTTP status and the first error reason of a Google API
// error body to a Kind.
func classify(status int, reason string) Kind {
	switch reason {
	case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
		return KindQuota
	case "keyInvalid", "keyExpired", "accessNotConfigured", "ipRefererBlocked", "API_KEY_INVALID":
		return KindCredential
	}
	if status == 401 {
		return KindCredential
	}
	if status == 429 {
		return KindQuota
	}
	return KindOther
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}
