// Package metrics exposes qaboard counters through an OpenTelemetry meter
// backed by the Prometheus exporter.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

const meterName = "qaboard"

// Recorder counts domain events and HTTP requests. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	exporter *prometheus.Exporter

	questions metric.Int64Counter
	answers   metric.Int64Counter
	requests  metric.Int64Counter
}

// New builds a Recorder with its own Prometheus registry.
func New() (*Recorder, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("initializing prometheus exporter: %w", err)
	}

	meter := exporter.MeterProvider().Meter(meterName)
	must := metric.Must(meter)

	return &Recorder{
		exporter: exporter,
		questions: must.NewInt64Counter(
			"qaboard/questions_created",
			metric.WithDescription("Count of questions created"),
		),
		answers: must.NewInt64Counter(
			"qaboard/answers_created",
			metric.WithDescription("Count of answers created"),
		),
		requests: must.NewInt64Counter(
			"qaboard/http/requests",
			metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
		),
	}, nil
}

func (r *Recorder) QuestionCreated(ctx context.Context) {
	if r == nil {
		return
	}
	r.questions.Add(ctx, 1)
}

func (r *Recorder) AnswerCreated(ctx context.Context) {
	if r == nil {
		return
	}
	r.answers.Add(ctx, 1)
}

// Request counts one completed HTTP request.
func (r *Recorder) Request(ctx context.Context, method, route string, status int) {
	if r == nil {
		return
	}
	r.requests.Add(ctx, 1,
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
}

// Handler serves the Prometheus scrape endpoint.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return r.exporter
}
