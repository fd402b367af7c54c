// Package httpclient owns the HTTP transport used by REST clients.
//
// A Transport wraps one *http.Client, reads complete responses, classifies
// failures into the errors taxonomy and releases its connections exactly once.
// It knows nothing about serializers or response envelopes; the rest package
// builds those on top.
//
//	t, err := httpclient.New(httpclient.Config{Timeout: 10 * time.Second})
//	defer t.Close()
//
//	resp, err := t.Do(ctx, req)
//
// Custom transports (test doubles, proxies, instrumentation) are honoured
// instead of the default one:
//
//	t, err := httpclient.New(cfg, httpclient.WithRoundTripper(stub))
package httpclient
