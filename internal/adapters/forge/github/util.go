package github

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aardsync/internal/core/forge"
	perr "aardsync/internal/platform/errors"
)

// parseRateHeaders reads x-ratelimit-*; absent counters are -1
func parseRateHeaders(h http.Header) forge.RateLimitInfo {
	info := forge.RateLimitInfo{
		Limit:     atoi(h.Get("X-RateLimit-Limit")),
		Remaining: atoi(h.Get("X-RateLimit-Remaining")),
	}
	if sec := atoi(h.Get("X-RateLimit-Reset")); sec > 0 {
		info.ResetAt = time.Unix(int64(sec), 0)
	}
	return info
}

func atoi(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return i
}

func transient(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// classify turns a non-2xx answer into a coded error. This is the only place
// that inspects response text; callers switch on perr codes
func classify(resp *http.Response, rl forge.RateLimitInfo, body []byte, raw bool) error {
	status := resp.StatusCode
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(status)
	}

	if raw {
		se := &forge.StatusError{Status: status, Body: text}
		code := perr.ErrorCodeUpstream
		if transient(status) {
			code = perr.ErrorCodeUnavailable
		}
		return perr.Wrap(se, code, fmt.Sprintf("failed to fetch raw content: %d %s", status, http.StatusText(status)))
	}

	switch {
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return perr.Wrap(&forge.RateLimitError{RateLimitInfo: rl, Status: status}, perr.ErrorCodeTooManyRequests, "")
	case status == http.StatusNotFound:
		return perr.Wrap(&forge.StatusError{Status: status, Body: text}, perr.ErrorCodeNotFound, "forge: not found")
	case (status == http.StatusConflict || status == http.StatusUnprocessableEntity) && strings.Contains(text, "does not match"):
		return perr.Wrap(&forge.StatusError{Status: status, Body: text}, perr.ErrorCodeConflict, "forge: write conflict")
	case transient(status):
		return perr.Wrap(&forge.StatusError{Status: status, Body: text}, perr.ErrorCodeUnavailable, "forge: transient server error")
	default:
		return perr.Wrap(&forge.StatusError{Status: status, Body: text}, perr.ErrorCodeUpstream, "forge: unexpected status")
	}
}
