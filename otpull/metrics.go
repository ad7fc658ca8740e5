// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otpull

import (
	"context"
	"time"

	"github.com/petenewcomb/pull-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/petenewcomb/pull-go/otpull"

type runMetrics struct {
	count    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newRunMetrics(metricName string) runMetrics {
	meter := otel.GetMeterProvider().Meter(instrumentationName)

	// Instrument creation only fails for invalid names, in which case the
	// returned no-op instruments are still safe to use.
	count, _ := meter.Int64Counter(metricName + ".count")
	errCount, _ := meter.Int64Counter(metricName + ".errors")
	duration, _ := meter.Float64Histogram(metricName+".duration", metric.WithUnit("s"))
	return runMetrics{count: count, errors: errCount, duration: duration}
}

func (m runMetrics) record(ctx context.Context, startTime time.Time, err error, attrs ...attribute.KeyValue) {
	opt := metric.WithAttributes(attrs...)
	m.count.Add(ctx, 1, opt)
	m.duration.Record(ctx, time.Since(startTime).Seconds(), opt)
	if err != nil {
		m.errors.Add(ctx, 1, opt)
	}
}

// MetricsTask records count, duration, and error metrics for runs of a task.
func MetricsTask[I, O any](metricName string, task pull.Task[I, O]) pull.Task[I, O] {
	m := newRunMetrics(metricName)
	return pull.TaskFunc[I, O](func(ctx context.Context, sub *pull.Submitter[I, O]) error {
		startTime := time.Now()
		err := task.Run(ctx, sub)
		m.record(ctx, startTime, err)
		return err
	})
}

// MetricsWorker records count, duration, and error metrics for the actions run
// by a worker. Measurements carry a "worker" attribute with the worker's ID.
func MetricsWorker[I, O any](metricName string, worker pull.Worker[I, O]) pull.Worker[I, O] {
	m := newRunMetrics(metricName)
	workerAttr := attribute.String("worker", worker.ID())
	return wrapWorker(worker, func(ctx context.Context, input I) (O, error) {
		startTime := time.Now()
		result, err := worker.RunAction(ctx, input)
		m.record(ctx, startTime, err, workerAttr)
		return result, err
	})
}

// RegisterSchedulerMetrics exposes the state of s as observable gauges named
// with the given prefix: queued, running, in_flight, ceiling, tasks_started,
// tasks_failed, actions_succeeded, and actions_failed. The returned
// registration should be unregistered once s is no longer of interest.
func RegisterSchedulerMetrics[I, O any](meter metric.Meter, prefix string, s *pull.Scheduler[I, O]) (metric.Registration, error) {
	type gauge struct {
		name  string
		value func(pull.Stats) int64
	}
	gauges := []gauge{
		{"queued", func(st pull.Stats) int64 { return int64(st.Queued) }},
		{"running", func(st pull.Stats) int64 { return int64(st.Running) }},
		{"in_flight", func(st pull.Stats) int64 { return int64(st.InFlight) }},
		{"ceiling", func(st pull.Stats) int64 { return int64(st.Ceiling) }},
		{"tasks_started", func(st pull.Stats) int64 { return int64(st.TasksStarted) }},
		{"tasks_failed", func(st pull.Stats) int64 { return int64(st.TasksFailed) }},
		{"actions_succeeded", func(st pull.Stats) int64 { return int64(st.ActionsSucceeded) }},
		{"actions_failed", func(st pull.Stats) int64 { return int64(st.ActionsFailed) }},
	}

	instruments := make([]metric.Int64ObservableGauge, len(gauges))
	observables := make([]metric.Observable, len(gauges))
	for i, g := range gauges {
		inst, err := meter.Int64ObservableGauge(prefix + "." + g.name)
		if err != nil {
			return nil, err
		}
		instruments[i] = inst
		observables[i] = inst
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := s.Stats()
		for i, g := range gauges {
			o.ObserveInt64(instruments[i], g.value(st))
		}
		return nil
	}, observables...)
}
