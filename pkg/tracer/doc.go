// Package tracer provides distributed tracing via OpenTelemetry.
//
// It wraps the OpenTelemetry SDK behind a small API: create a span,
// record an error on it, attach attributes, and propagate trace context
// across service boundaries. Export over OTLP HTTP is off by default
// and enabled with TRACER_ENABLE_EXPORT=true.
//
//	tr := tracer.NewClient(tracer.NewConfig(), log)
//
//	ctx, span := tr.StartSpan(ctx, "query.answer")
//	defer span.End()
//	tr.SetAttributes(span, map[string]interface{}{"query.top_k": 5})
package tracer
