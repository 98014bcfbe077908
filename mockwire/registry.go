package mockwire

// HandlerSet is an ordered sequence of handlers. Ordering is the only
// priority mechanism: the earliest declared match wins.
type HandlerSet []Handler

// Register constructs a handler set from the given handlers, preserving
// declaration order. Pure construction, no I/O.
func Register(handlers ...Handler) HandlerSet {
	return append(HandlerSet(nil), handlers...)
}

// Resolve scans the set in declaration order and returns the response of
// the first handler whose matcher accepts the request. The second return
// value is false when no handler matches. Evaluation short-circuits on the
// first match; handlers are never merged or combined.
func (hs HandlerSet) Resolve(req RequestInfo) (*Response, bool) {
	for i := range hs {
		if hs[i].Matcher != nil && hs[i].Matcher(req.Method, req.Path) {
			resp := hs[i].Respond(req)
			return &resp, true
		}
	}
	return nil, false
}
