package interception

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/mafredri/cdp"
	"github.com/mafredri/cdp/devtool"
	"github.com/mafredri/cdp/protocol/fetch"
	"github.com/mafredri/cdp/protocol/network"
	"github.com/mafredri/cdp/rpcc"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mockwire"
)

const applyTimeout = 3 * time.Second

// BrowserInterceptor catches requests inside a running browser page over
// the DevTools protocol. Matched requests are fulfilled with the canned
// response before they reach the network; unmatched requests continue or
// fail per the session's policy.
type BrowserInterceptor struct {
	devtoolsURL string
	logger      logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	conn   *rpcc.Conn
	client *cdp.Client
}

// NewBrowserInterceptor builds a backend that attaches to the browser's
// DevTools endpoint, e.g. "http://localhost:9222".
func NewBrowserInterceptor(devtoolsURL string, logger logging.Logger) *BrowserInterceptor {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &BrowserInterceptor{devtoolsURL: devtoolsURL, logger: logger}
}

// Install attaches to the current page target, enables the Fetch domain
// for all request-stage URLs, and starts servicing paused requests.
func (b *BrowserInterceptor) Install(resolve ResolveFunc) error {
	ctx, cancel := context.WithCancel(context.Background())
	b.ctx = ctx
	b.cancel = cancel

	dt := devtool.New(b.devtoolsURL)
	target, err := dt.Get(ctx, devtool.Page)
	if err != nil {
		target, err = dt.Create(ctx)
		if err != nil {
			cancel()
			return err
		}
	}

	conn, err := rpcc.DialContext(ctx, target.WebSocketDebuggerURL)
	if err != nil {
		cancel()
		return err
	}
	b.conn = conn
	b.client = cdp.NewClient(conn)

	if err := b.client.Network.Enable(ctx, nil); err != nil {
		b.close()
		return err
	}
	all := "*"
	patterns := []fetch.RequestPattern{
		{URLPattern: &all, RequestStage: fetch.RequestStageRequest},
	}
	if err := b.client.Fetch.Enable(ctx, &fetch.EnableArgs{Patterns: patterns}); err != nil {
		b.close()
		return err
	}

	paused, err := b.client.Fetch.RequestPaused(ctx)
	if err != nil {
		b.close()
		return err
	}
	go b.consume(ctx, b.client, paused, resolve)
	b.logger.Printf("browser interception attached to %s", b.devtoolsURL)
	return nil
}

// Teardown disables the Fetch domain and closes the DevTools connection.
func (b *BrowserInterceptor) Teardown() error {
	if b.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
		_ = b.client.Fetch.Disable(ctx)
		cancel()
	}
	return b.close()
}

func (b *BrowserInterceptor) close() error {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	var err error
	if b.conn != nil {
		err = b.conn.Close()
		b.conn = nil
	}
	return err
}

// consume holds its own client and context so an in-flight event never
// reads state that Teardown mutates; once the context is canceled the CDP
// calls just return errors.
func (b *BrowserInterceptor) consume(ctx context.Context, client *cdp.Client, paused fetch.RequestPausedClient, resolve ResolveFunc) {
	defer paused.Close()
	for {
		ev, err := paused.Recv()
		if err != nil {
			return
		}
		b.handle(ctx, client, ev, resolve)
	}
}

func (b *BrowserInterceptor) handle(ctx context.Context, client *cdp.Client, ev *fetch.RequestPausedReply, resolve ResolveFunc) {
	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	info := pausedRequestInfo(ev)
	resp, err := resolve(info)
	if err != nil {
		b.logger.Printf("failing %s %s: %s", info.Method, info.Path, err)
		_ = client.Fetch.FailRequest(ctx, &fetch.FailRequestArgs{
			RequestID:   ev.RequestID,
			ErrorReason: network.ErrorReasonFailed,
		})
		return
	}
	if resp == nil {
		_ = client.Fetch.ContinueRequest(ctx, &fetch.ContinueRequestArgs{RequestID: ev.RequestID})
		return
	}

	args := &fetch.FulfillRequestArgs{RequestID: ev.RequestID, ResponseCode: resp.Status}
	if len(resp.Headers) > 0 {
		args.ResponseHeaders = headerEntries(resp.Headers)
	}
	if len(resp.Body) > 0 {
		args.Body = resp.Body
	}
	_ = client.Fetch.FulfillRequest(ctx, args)
}

func pausedRequestInfo(ev *fetch.RequestPausedReply) mockwire.RequestInfo {
	headers := http.Header{}
	raw := map[string]string{}
	_ = json.Unmarshal(ev.Request.Headers, &raw)
	for k, v := range raw {
		headers.Set(k, v)
	}

	path := ev.Request.URL
	if u, err := url.Parse(ev.Request.URL); err == nil {
		path = u.Path
	}

	var body []byte
	if ev.Request.PostData != nil {
		body = []byte(*ev.Request.PostData)
	}
	return mockwire.RequestInfo{
		Method:  ev.Request.Method,
		Path:    path,
		Headers: headers,
		Body:    body,
	}
}

func headerEntries(h http.Header) []fetch.HeaderEntry {
	out := make([]fetch.HeaderEntry, 0, len(h))
	for k, vs := range h {
		for _, v := range vs {
			out = append(out, fetch.HeaderEntry{Name: k, Value: v})
		}
	}
	return out
}
