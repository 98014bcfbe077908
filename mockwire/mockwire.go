// Package mockwire defines the request/response model and the ordered
// handler registry that the interception layer resolves canned responses
// from. Handlers match on method and path only; anything a responder wants
// to do with headers or the body is its own concern.
package mockwire

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RequestInfo is the interception layer's view of one HTTP request.
type RequestInfo struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// Response is a canned response produced by a handler.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Matcher decides whether a handler claims a request. Method comparison is
// case-sensitive.
type Matcher func(method, path string) bool

// Responder produces the canned response for a matched request.
type Responder func(req RequestInfo) Response

// Handler pairs a matcher with a responder. Handlers are immutable once
// registered for a session.
type Handler struct {
	Matcher Matcher
	Respond Responder
}

// Route builds a handler that matches the given method exactly and the
// given path pattern. A pattern is either an exact path ("/api/datasets")
// or one with templated segments ("/api/datasets/:id"); a ":" segment
// matches exactly one non-empty path segment.
func Route(method, pattern string, respond Responder) Handler {
	want := splitPath(pattern)
	return Handler{
		Matcher: func(m, p string) bool {
			if m != method {
				return false
			}
			return matchSegments(want, splitPath(p))
		},
		Respond: respond,
	}
}

func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return false
			}
			continue
		}
		if seg != path[i] {
			return false
		}
	}
	return true
}

// JSONResponse returns a responder that always answers with the given
// status and JSON body.
func JSONResponse(status int, body string) Responder {
	return func(RequestInfo) Response {
		h := http.Header{}
		h.Set("Content-Type", "application/json")
		return Response{Status: status, Headers: h, Body: []byte(body)}
	}
}

// StatusResponse returns a responder that answers with a bare status code.
func StatusResponse(status int) Responder {
	return func(RequestInfo) Response {
		return Response{Status: status}
	}
}

// JSONPatch returns a copy of the base JSON document with the value at the
// given path replaced. A malformed base is returned unchanged.
func JSONPatch(base, path string, value interface{}) string {
	out, err := sjson.Set(base, path, value)
	if err != nil {
		return base
	}
	return out
}

// BodyField reads a field from the request's JSON body. Responders use this
// to vary a canned response on request content.
func BodyField(req RequestInfo, path string) gjson.Result {
	return gjson.GetBytes(req.Body, path)
}
