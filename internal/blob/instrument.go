package blob

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation names used as metric labels and span names.
const (
	opExists = "exists"
	opGet    = "get"
	opPut    = "put"
)

var (
	// blobOps counts bucket calls by backend, operation and result
	// (ok|not_found|error).
	blobOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blob_operations_total",
			Help: "Total number of object bucket operations.",
		},
		[]string{"backend", "op", "result"},
	)

	// blobLat records call duration in seconds.
	blobLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blob_operation_duration_seconds",
			Help:    "Duration of object bucket operations in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)

	// blobBytes counts payload bytes read and written.
	blobBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blob_bytes_total",
			Help: "Object bytes transferred, by direction.",
		},
		[]string{"backend", "direction"},
	)
)

func init() {
	prometheus.MustRegister(blobOps, blobLat, blobBytes)
}

// instrumented decorates a Bucket with Prometheus metrics and a span per call.
type instrumented struct {
	next    Bucket
	backend string
	tracer  trace.Tracer
}

// Instrument wraps b so that every call is measured under the given backend
// label. The tracer comes from the global provider, so spans are no-ops until
// observability.SetupOTel installs one.
func Instrument(b Bucket, backend string) Bucket {
	return &instrumented{
		next:    b,
		backend: backend,
		tracer:  otel.Tracer("github.com/tbourn/chatbot-docstore/internal/blob"),
	}
}

func (i *instrumented) Exists(ctx context.Context, key string) (bool, error) {
	ctx, done := i.start(ctx, opExists, key)
	ok, err := i.next.Exists(ctx, key)
	done(err)
	return ok, err
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, done := i.start(ctx, opGet, key)
	data, err := i.next.Get(ctx, key)
	done(err)
	if err == nil {
		blobBytes.WithLabelValues(i.backend, "read").Add(float64(len(data)))
	}
	return data, err
}

func (i *instrumented) Put(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, done := i.start(ctx, opPut, key)
	err := i.next.Put(ctx, key, data, contentType)
	done(err)
	if err == nil {
		blobBytes.WithLabelValues(i.backend, "write").Add(float64(len(data)))
	}
	return err
}

func (i *instrumented) Close() error { return i.next.Close() }

// start opens a span and returns a completion func that records metrics and
// span status for err.
func (i *instrumented) start(ctx context.Context, op, key string) (context.Context, func(error)) {
	begin := time.Now()
	ctx, span := i.tracer.Start(ctx, "blob."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("blob.backend", i.backend),
			attribute.String("blob.key", key),
		),
	)
	return ctx, func(err error) {
		result := "ok"
		switch {
		case errors.Is(err, ErrObjectNotExist):
			result = "not_found"
		case err != nil:
			result = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		blobOps.WithLabelValues(i.backend, op, result).Inc()
		blobLat.WithLabelValues(i.backend, op).Observe(time.Since(begin).Seconds())
		span.End()
	}
}
