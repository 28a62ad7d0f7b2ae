package intervals

import (
	"net/http"
)

// APIKeyUser is the fixed basic-auth user name intervals.icu expects when
// authenticating with a personal API key.
const APIKeyUser = "API_KEY"

// Transport is an http.RoundTripper that authenticates every request with
// the athlete's API key.
type Transport struct {
	// APIKey is sent as the basic-auth password.
	APIKey string

	// Base is the base RoundTripper used to make the actual HTTP requests.
	// If nil, http.DefaultTransport is used.
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	req2 := cloneRequest(req)
	req2.SetBasicAuth(APIKeyUser, t.APIKey)
	req2.Header.Set("Accept", "application/json")

	return base.RoundTrip(req2)
}

// cloneRequest returns a clone of the provided *http.Request.
// The clone is a shallow copy of the struct and its Header map.
func cloneRequest(r *http.Request) *http.Request {
	r2 := new(http.Request)
	*r2 = *r
	r2.Header = make(http.Header, len(r.Header))
	for k, s := range r.Header {
		r2.Header[k] = append([]string(nil), s...)
	}
	return r2
}
