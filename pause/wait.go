// Package pause blocks until the browser reaches an expected state.
//
// Every wait is built on Until, which retries one blocking driver wait of at
// most one polling interval until a predicate succeeds or the total timeout
// has elapsed. The deadline is checked only between attempts, so a wait that
// times out may return up to one polling interval after the timeout.
package pause

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

const (
	// DefaultPollingInterval bounds a single blocking attempt.
	DefaultPollingInterval = 5 * time.Second
	// DefaultProbeInterval is how often the predicate is re-evaluated within
	// an attempt.
	DefaultProbeInterval = 500 * time.Millisecond
)

// ErrTimeout matches errors returned when a wait expires without the
// predicate ever succeeding or faulting on the last attempt.
var ErrTimeout = errors.New("pause: timed out")

// Error is returned by every failed wait. Err is the fault of the last
// attempt, or nil when the wait simply timed out.
type Error struct {
	Timeout time.Duration
	Elapsed time.Duration
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("pause: condition not met within %v (waited %v)", e.Timeout, e.Elapsed)
	}
	return fmt.Sprintf("pause: condition failed within %v (waited %v): %v", e.Timeout, e.Elapsed, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports plain timeouts as ErrTimeout.
func (e *Error) Is(target error) bool {
	return target == ErrTimeout && e.Err == nil
}

// Predicate queries the browser. It returns ok when the expected state is
// reached, with the value to hand back to the caller, and an error for a
// fault that ends the current attempt.
type Predicate[T any] interface {
	Evaluate(wd selenium.WebDriver) (value T, ok bool, err error)
}

// PredicateFunc adapts a function to a Predicate.
type PredicateFunc[T any] func(wd selenium.WebDriver) (T, bool, error)

// Evaluate implements Predicate.
func (f PredicateFunc[T]) Evaluate(wd selenium.WebDriver) (T, bool, error) {
	return f(wd)
}

// SubInterval returns how long a single attempt may block.
func SubInterval(polling, timeout time.Duration) time.Duration {
	if timeout < polling {
		return timeout
	}
	return polling
}

type outcome int

const (
	satisfied outcome = iota
	faulted
	expired
)

func (o outcome) String() string {
	switch o {
	case satisfied:
		return "satisfied"
	case faulted:
		return "faulted"
	default:
		return "expired"
	}
}

type attempt[T any] struct {
	outcome outcome
	value   T
	err     error
}

// Until waits up to timeout for pred to succeed on p's session and returns
// its value. A fault from one attempt is retried; only the last attempt's
// fault is returned, wrapped in *Error.
func Until[T any](p *Pauser, pred Predicate[T], timeout time.Duration) (T, error) {
	if timeout < 0 {
		timeout = 0
	}
	sub := SubInterval(p.polling, timeout)
	probe := p.probe
	if probe > sub/2 {
		probe = sub / 2
	}
	start := time.Now()

	var last attempt[T]
	for n := 1; ; n++ {
		began := time.Now()
		last = evaluate(p.wd, pred, sub, probe)
		glog.V(1).Infof("pause: attempt %d %s after %v", n, last.outcome, time.Since(start))
		if last.outcome == satisfied {
			return last.value, nil
		}
		if last.outcome == faulted {
			glog.Warningf("pause: attempt %d: %v", n, last.err)
			// A fault ends the attempt early. Back off for up to one probe,
			// without letting the attempt outlast sub.
			backoff := sub - time.Since(began)
			if backoff > probe {
				backoff = probe
			}
			if backoff > 0 {
				time.Sleep(backoff)
			}
		}
		if time.Since(start) > timeout {
			break
		}
	}

	var zero T
	return zero, &Error{Timeout: timeout, Elapsed: time.Since(start), Err: last.err}
}

// evaluate runs one attempt through the driver's own wait, which returns
// either the predicate's fault or its own timeout error.
func evaluate[T any](wd selenium.WebDriver, pred Predicate[T], sub, probe time.Duration) attempt[T] {
	var (
		a     attempt[T]
		fault error
	)
	cond := func(wd selenium.WebDriver) (bool, error) {
		v, ok, err := pred.Evaluate(wd)
		glog.V(2).Infof("pause: evaluated ok=%t err=%v", ok, err)
		if err != nil {
			fault = err
			return false, err
		}
		if ok {
			a.value = v
		}
		return ok, nil
	}

	// The driver sleeps a full probe after its last check, so shorten its
	// timeout to keep the attempt within sub.
	err := wd.WaitWithTimeoutAndInterval(cond, sub-probe, probe)
	switch {
	case err == nil:
		a.outcome = satisfied
	case fault != nil:
		a.outcome = faulted
		a.err = fault
	default:
		a.outcome = expired
	}
	return a
}
