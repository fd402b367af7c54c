// Package observability wires OpenTelemetry tracing and metrics into the
// REST client.
//
// Providers:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("reststack"), log)
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("reststack"), log)
//	defer mp.Shutdown(ctx)
//
// Each client call is wrapped in a Call, which owns one http.client span and
// feeds the rest.client.* instruments:
//
//	ctx, call := observability.StartCall(ctx, tracer, metrics, "GET", target, requestID)
//	defer call.End(ctx, status, observability.OutcomeSuccess, "", nil)
//
// Without InitTracer or InitMeter the global no-op providers are used.
package observability
