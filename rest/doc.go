// Package rest is a generic REST client foundation.
//
// A Client holds an absolute endpoint, a transport and default headers. The
// verb functions issue calls through it and hand payloads to a
// serializer.Serializer:
//
//	c, err := rest.New("https://api.example.com")
//	if err != nil { ... }
//	defer c.Close()
//
//	resp := rest.Get(ctx, c, "/widgets/7", serializer.NewJSON[Widget]())
//	if !resp.Success {
//	    log.Printf("status %d: %v", resp.StatusCode, resp.Err)
//	}
//
// Verbs never return errors or panic. Every outcome is an envelope:
//
//   - 2xx with a decodable body: Success, the server's status and the data.
//   - any other status: !Success, the server's status and a PROTOCOL_FAILURE
//     error carrying the reason phrase.
//   - transport, encode or decode failure: !Success, StatusInternalError and
//     an error whose code names the cause.
//
// Each verb has an Async form returning a Future. Both forms run the same
// code and produce equal envelopes for equal inputs.
//
// Relative targets resolve against the endpoint with RFC 3986 rules, so an
// endpoint path that should be kept needs a trailing slash:
// "https://api.example.com/v1/" + "widgets" is ".../v1/widgets".
package rest
