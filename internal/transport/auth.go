package transport

import "net/http"

// Authenticator applies a credential to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request, credential string)
}

// NoAuth applies nothing.
type NoAuth struct{}

// Apply implements Authenticator.
func (NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth sets "Authorization: Bearer <credential>".
type BearerAuth struct{}

// Apply implements Authenticator.
func (BearerAuth) Apply(req *http.Request, credential string) {
	req.Header.Set("Authorization", "Bearer "+credential)
}

// HeaderAuth sets a custom header to the raw credential.
type HeaderAuth struct {
	Header string
}

// Apply implements Authenticator.
func (a HeaderAuth) Apply(req *http.Request, credential string) {
	req.Header.Set(a.Header, credential)
}
