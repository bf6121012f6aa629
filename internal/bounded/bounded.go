// Package bounded runs work under a hard wall-clock budget and substitutes a
// fallback whenever the work does not produce a usable value in time.
package bounded

import (
	"context"
	"errors"
	"fmt"
	"time"

	"career-backend/internal/shared/metrics"
	"career-backend/internal/shared/telemetry"
)

// Outcome labels how a bounded call ended.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeTimedOut    Outcome = "timed_out"
	OutcomeFailed      Outcome = "failed"
	OutcomeEmpty       Outcome = "empty"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeCached      Outcome = "cached"
)

// ErrTimedOut is reported in Result.Err when the budget elapsed first.
var ErrTimedOut = errors.New("bounded call timed out")

// Result describes one bounded call.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
	Elapsed time.Duration
}

// UsedFallback reports whether the caller received a substitute value.
func (r Result[T]) UsedFallback() bool {
	return r.Outcome != OutcomeCompleted && r.Outcome != OutcomeCached
}

type done[T any] struct {
	value T
	err   error
}

// Run executes work on its own goroutine and waits at most timeout for it.
// When the budget elapses the worker's context is cancelled and its eventual
// result is dropped. A panic inside work is reported as OutcomeFailed.
func Run[T any](ctx context.Context, timeout time.Duration, work func(context.Context) (T, error)) Result[T] {
	start := time.Now()
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so an abandoned worker can always deliver and exit.
	ch := make(chan done[T], 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- done[T]{err: fmt.Errorf("bounded work panicked: %v", rec)}
			}
		}()
		v, err := work(workCtx)
		ch <- done[T]{value: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case d := <-ch:
		res := Result[T]{Value: d.value, Err: d.err, Outcome: OutcomeCompleted, Elapsed: time.Since(start)}
		if d.err != nil {
			var zero T
			res.Value = zero
			res.Outcome = OutcomeFailed
		}
		return res
	case <-timer.C:
		return Result[T]{Outcome: OutcomeTimedOut, Err: ErrTimedOut, Elapsed: time.Since(start)}
	case <-ctx.Done():
		return Result[T]{Outcome: OutcomeFailed, Err: ctx.Err(), Elapsed: time.Since(start)}
	}
}

// Call describes a generation-backed computation with its substitute.
type Call[T any] struct {
	// Operation names the call in logs and metrics.
	Operation string
	Timeout   time.Duration
	// Available is false when the backing service was never configured.
	Available bool
	Work      func(context.Context) (T, error)
	// Empty reports a degenerate value that must not reach the caller.
	Empty    func(T) bool
	Fallback func() T
	// Fields are attached to every log line for this call.
	Fields map[string]any
}

// Resolve returns the value produced by call.Work when it completes in time
// with a non-empty value, and call.Fallback() in every other case. It never
// returns an error: the Result only explains which path was taken.
func Resolve[T any](ctx context.Context, call Call[T]) (T, Result[T]) {
	if !call.Available || call.Work == nil {
		res := Result[T]{Outcome: OutcomeUnavailable}
		metrics.ObserveGeneration(call.Operation, string(res.Outcome), 0)
		v := call.Fallback()
		res.Value = v
		return v, res
	}

	res := Run(ctx, call.Timeout, call.Work)
	if res.Outcome == OutcomeCompleted && call.Empty != nil && call.Empty(res.Value) {
		var zero T
		res.Value = zero
		res.Outcome = OutcomeEmpty
	}
	metrics.ObserveGeneration(call.Operation, string(res.Outcome), res.Elapsed)

	if res.Outcome == OutcomeCompleted {
		telemetry.Debug("generation.completed", withFields(call, res, nil))
		return res.Value, res
	}

	switch res.Outcome {
	case OutcomeTimedOut:
		telemetry.Warn("generation.timeout", withFields(call, res, map[string]any{
			"timeout_ms": call.Timeout.Milliseconds(),
		}))
	default:
		telemetry.Warn("generation.fallback", withFields(call, res, nil))
	}
	v := call.Fallback()
	res.Value = v
	return v, res
}

func withFields[T any](call Call[T], res Result[T], extra map[string]any) map[string]any {
	fields := make(map[string]any, len(call.Fields)+len(extra)+4)
	for k, v := range call.Fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	fields["operation"] = call.Operation
	fields["outcome"] = string(res.Outcome)
	fields["duration_ms"] = float64(res.Elapsed.Microseconds()) / 1000.0
	if res.Err != nil {
		fields["error"] = res.Err.Error()
	}
	return fields
}
