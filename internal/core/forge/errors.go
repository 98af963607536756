package forge

import (
	"fmt"
	"strconv"
	"time"
)

// RateLimitInfo is the quota snapshot taken from x-ratelimit-* headers.
// Fields are -1 when the header was absent
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitError is returned for 403 and 429 answers. It is never retried
type RateLimitError struct {
	RateLimitInfo
	Status int
}

func (e *RateLimitError) Error() string {
	reset := "unknown"
	if !e.ResetAt.IsZero() {
		reset = e.ResetAt.Local().Format("15:04:05")
	}
	return fmt.Sprintf("GitHub Rate Limit Exceeded. Limit: %s, Remaining: %s. Resets at %s. Provide a Token!",
		orNull(e.Limit), orNull(e.Remaining), reset)
}

func orNull(n int) string {
	if n < 0 {
		return "null"
	}
	return strconv.Itoa(n)
}

// StatusError is any other non-2xx answer. The perr code wrapped around it says
// whether it is a not found, a write conflict or a plain upstream failure
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API error %d: %s", e.Status, e.Body)
}
