package ownhttp

import (
	"net/http"

	"golang.org/x/time/rate"
)

// ThrottleTransport rate limits outgoing requests. Useful against
// mirrors that ban aggressive clients.
type ThrottleTransport struct {
	T       http.RoundTripper
	limiter *rate.Limiter
}

func (tt *ThrottleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := tt.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return tt.T.RoundTrip(req)
}

// NewThrottleTransport wraps T (http.DefaultTransport when nil)
func NewThrottleTransport(T http.RoundTripper, limiter *rate.Limiter) *ThrottleTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &ThrottleTransport{T, limiter}
}
