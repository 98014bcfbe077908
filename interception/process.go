package interception

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mockwire"
)

// ProcessInterceptor catches requests inside the test process by wrapping
// the target client's transport. No browser is required; requests that the
// handler set answers never leave the process.
type ProcessInterceptor struct {
	client   *http.Client
	original http.RoundTripper
}

// NewProcessInterceptor builds a backend that shims the given client. A nil
// client shims http.DefaultClient.
func NewProcessInterceptor(client *http.Client) *ProcessInterceptor {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProcessInterceptor{client: client}
}

func (p *ProcessInterceptor) Install(resolve ResolveFunc) error {
	p.original = p.client.Transport
	real := p.original
	if real == nil {
		real = http.DefaultTransport
	}
	p.client.Transport = &mockTransport{resolve: resolve, real: real}
	return nil
}

// Teardown restores the client's original transport.
func (p *ProcessInterceptor) Teardown() error {
	p.client.Transport = p.original
	p.original = nil
	return nil
}

type mockTransport struct {
	resolve ResolveFunc
	real    http.RoundTripper
}

func (t *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.resolve(requestInfo(req))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return t.real.RoundTrip(req)
	}
	return synthesize(req, resp), nil
}

func requestInfo(req *http.Request) mockwire.RequestInfo {
	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err == nil {
			body = data
			// the real transport may still need the body on bypass
			req.Body = io.NopCloser(bytes.NewReader(data))
		} else {
			// the body is consumed; a bypass must see the read failure
			// rather than silently forward a truncated request
			req.Body = io.NopCloser(&errorReader{err: err})
		}
	}
	return mockwire.RequestInfo{
		Method:  req.Method,
		Path:    req.URL.Path,
		Headers: req.Header,
		Body:    body,
	}
}

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

func synthesize(req *http.Request, r *mockwire.Response) *http.Response {
	header := http.Header{}
	for k, vs := range r.Headers {
		header[k] = append([]string(nil), vs...)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", r.Status, http.StatusText(r.Status)),
		StatusCode:    r.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}
