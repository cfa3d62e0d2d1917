// Package ownhttp provides the http client used for api requests,
// with a User-Agent header and optional request throttling.
package ownhttp

import "net/http"

// New returns a new http.Client with the AddHeaderTransport
// (setting the User-Agent header)
func New(userAgent string) *http.Client {
	return &http.Client{Transport: NewAddHeaderTransport(nil, userAgent)}
}

// AddHeaderTransport sets a User-Agent on every request
type AddHeaderTransport struct {
	T         http.RoundTripper
	UserAgent string
}

func (t *AddHeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	return t.T.RoundTrip(req)
}

// NewAddHeaderTransport wraps T (http.DefaultTransport when nil)
func NewAddHeaderTransport(T http.RoundTripper, userAgent string) *AddHeaderTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &AddHeaderTransport{T: T, UserAgent: userAgent}
}
