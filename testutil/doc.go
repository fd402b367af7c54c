// Package testutil provides test components for exercising REST clients.
//
// PostsAPI is an in-memory Posts API served by httptest with gin. It serves
// JSON, ISO-8859-1 XML and YAML, plus routes for failure cases (malformed
// bodies, slow replies, arbitrary statuses) and an echo route that reflects
// the received request. StubTransport is an http.RoundTripper that answers
// without a network and can send reason phrases servers never emit.
//
// Both plug into the component lifecycle:
//
//	func TestPosts(t *testing.T) {
//	    api := testutil.StartPostsAPI(t)
//	    c, _ := rest.New(api.BaseURL() + "/")
//	    defer c.Close()
//	}
//
// TestComponent extends component.Component with Reset, Snapshot and
// Restore so state can be isolated between cases.
package testutil
