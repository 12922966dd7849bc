package izettle

import (
	"net/url"
)

// RequestSpec describes a single authenticated call to the iZettle API:
// an explicit HTTP verb, a fully-formed URL, optional querystring parameters,
// and an optional body that is JSON-encoded before dispatch.
//
// Every endpoint method on the Client reduces to building one of these
// and handing it to the invoke pipeline
type RequestSpec struct {
	Method string
	URL    string
	Query  url.Values
	Body   interface{}
}
