package application

import (
	"io"
	"net/http"
	"strings"
)

// Request is the Request Decoder's output (spec §2, §4.4): everything the
// Resource Controller needs from an inbound HTTP request, extracted once
// so the controller itself never touches *http.Request. Mirrors the
// teacher's habit of pulling only the fields a handler needs off
// khttp.Context rather than threading the whole context through the
// service layer (handlers/resource.go).
type Request struct {
	Method      string
	URL         string
	Body        []byte
	ContentType string
	Accept      string
	Prefer      string
	Link        string
	Slug        string
	IfMatch     string
	IfNoneMatch string
}

// DecodeRequest reads r's body and headers into a Request bound to url -
// the resource's effective absolute URI, which the transport layer is
// responsible for computing from its context path and routing.
func DecodeRequest(r *http.Request, url string) (*Request, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method:      r.Method,
		URL:         url,
		Body:        body,
		ContentType: stripParams(r.Header.Get("Content-Type")),
		Accept:      r.Header.Get("Accept"),
		Prefer:      r.Header.Get("Prefer"),
		Link:        r.Header.Get("Link"),
		Slug:        r.Header.Get("Slug"),
		IfMatch:     r.Header.Get("If-Match"),
		IfNoneMatch: r.Header.Get("If-None-Match"),
	}, nil
}

func stripParams(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

// Response is what the Resource Controller produces for every method; the
// transport layer copies Headers and Body onto the real
// http.ResponseWriter and writes StatusCode last.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// NewResponse builds an empty Response with an initialized Header map.
func NewResponse(status int) *Response {
	return &Response{StatusCode: status, Headers: make(http.Header)}
}
