package pause

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumkit/internal/fakedriver"
)

const (
	testPolling = 20 * time.Millisecond
	testProbe   = 2 * time.Millisecond
	// slack absorbs scheduler jitter in elapsed time checks.
	slack = 100 * time.Millisecond
)

func newTestPauser(t *testing.T) (*Pauser, *fakedriver.Driver) {
	t.Helper()
	wd := fakedriver.New("session")
	p, err := New(wd, PollingInterval(testPolling), ProbeInterval(testProbe))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return p, wd
}

func TestSubInterval(t *testing.T) {
	tests := []struct {
		desc             string
		polling, timeout time.Duration
		want             time.Duration
	}{
		{
			desc:    "timeout shorter than polling",
			polling: 5 * time.Second,
			timeout: 2 * time.Second,
			want:    2 * time.Second,
		},
		{
			desc:    "timeout longer than polling",
			polling: 5 * time.Second,
			timeout: 12 * time.Second,
			want:    5 * time.Second,
		},
		{
			desc:    "equal",
			polling: 5 * time.Second,
			timeout: 5 * time.Second,
			want:    5 * time.Second,
		},
		{
			desc:    "zero timeout",
			polling: 5 * time.Second,
			want:    0,
		},
	}
	for _, test := range tests {
		if got := SubInterval(test.polling, test.timeout); got != test.want {
			t.Errorf("%s: SubInterval(%v, %v) = %v, want %v", test.desc, test.polling, test.timeout, got, test.want)
		}
	}
}

func TestNewOptions(t *testing.T) {
	wd := fakedriver.New("session")
	p, err := New(wd)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if p.PollingInterval() != DefaultPollingInterval {
		t.Errorf("p.PollingInterval() = %v, want %v", p.PollingInterval(), DefaultPollingInterval)
	}
	if p.Driver() != selenium.WebDriver(wd) {
		t.Errorf("p.Driver() returned a different driver")
	}

	if _, err := New(wd, PollingInterval(0)); err == nil {
		t.Errorf("New(PollingInterval(0)) returned nil error, want an error")
	}
	if _, err := New(wd, ProbeInterval(-time.Second)); err == nil {
		t.Errorf("New(ProbeInterval(-1s)) returned nil error, want an error")
	}
	if _, err := New(wd, ProbeInterval(0)); err == nil {
		t.Errorf("New(ProbeInterval(0)) returned nil error, want an error")
	}
}

func TestUntilImmediateSuccess(t *testing.T) {
	p, wd := newTestPauser(t)
	pred := PredicateFunc[string](func(selenium.WebDriver) (string, bool, error) {
		return "done", true, nil
	})

	got, err := Until[string](p, pred, time.Second)
	if err != nil {
		t.Fatalf("Until returned error: %v", err)
	}
	if got != "done" {
		t.Errorf("Until returned %q, want %q", got, "done")
	}
	if n := wd.Waits(); n != 1 {
		t.Errorf("driver waits = %d, want 1", n)
	}
}

func TestUntilFaultWithZeroTimeout(t *testing.T) {
	p, wd := newTestPauser(t)
	fault := errors.New("javascript error: boom")
	pred := PredicateFunc[bool](func(selenium.WebDriver) (bool, bool, error) {
		return false, false, fault
	})

	_, err := Until[bool](p, pred, 0)
	if err == nil {
		t.Fatal("Until returned nil error, want the fault")
	}
	if !errors.Is(err, fault) {
		t.Errorf("Until returned %v, want it to wrap %v", err, fault)
	}
	if errors.Is(err, ErrTimeout) {
		t.Errorf("errors.Is(%v, ErrTimeout) = true, want false for a fault", err)
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Until returned %T, want *Error", err)
	}
	if perr.Timeout != 0 {
		t.Errorf("perr.Timeout = %v, want 0", perr.Timeout)
	}
	if n := wd.Waits(); n != 1 {
		t.Errorf("driver waits = %d, want exactly one attempt", n)
	}
}

func TestUntilRetriesAfterFault(t *testing.T) {
	p, _ := newTestPauser(t)
	var calls int32
	pred := PredicateFunc[int32](func(selenium.WebDriver) (int32, bool, error) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			return 0, false, errors.New("unknown error: transient")
		}
		return n, true, nil
	})

	got, err := Until[int32](p, pred, time.Second)
	if err != nil {
		t.Fatalf("Until returned error: %v", err)
	}
	if got != 3 {
		t.Errorf("Until returned %d, want 3", got)
	}
}

func TestUntilSucceedsAfterSeveralAttempts(t *testing.T) {
	p, wd := newTestPauser(t)
	ready := time.Now().Add(3 * testPolling)
	pred := PredicateFunc[bool](func(selenium.WebDriver) (bool, bool, error) {
		ok := time.Now().After(ready)
		return ok, ok, nil
	})

	if _, err := Until[bool](p, pred, time.Second); err != nil {
		t.Fatalf("Until returned error: %v", err)
	}
	if n := wd.Waits(); n < 2 {
		t.Errorf("driver waits = %d, want several attempts", n)
	}
}

func TestUntilTimeout(t *testing.T) {
	p, _ := newTestPauser(t)
	pred := PredicateFunc[bool](func(selenium.WebDriver) (bool, bool, error) {
		return false, false, nil
	})
	timeout := 3 * testPolling

	start := time.Now()
	_, err := Until[bool](p, pred, timeout)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Until returned %v, want ErrTimeout", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Err != nil {
		t.Fatalf("Until returned %#v, want *Error without a fault", err)
	}
	if elapsed < timeout {
		t.Errorf("Until returned after %v, want at least %v", elapsed, timeout)
	}
	if limit := timeout + testPolling + slack; elapsed > limit {
		t.Errorf("Until returned after %v, want at most %v", elapsed, limit)
	}
}

func TestUntilLastFaultWins(t *testing.T) {
	p, _ := newTestPauser(t)
	var calls int32
	late := errors.New("unknown error: late")
	pred := PredicateFunc[bool](func(selenium.WebDriver) (bool, bool, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return false, false, errors.New("unknown error: early")
		}
		return false, false, late
	})

	_, err := Until[bool](p, pred, 3*testPolling)
	if !errors.Is(err, late) {
		t.Fatalf("Until returned %v, want the last fault %v", err, late)
	}
}

func TestUntilFaultThenTimeout(t *testing.T) {
	p, _ := newTestPauser(t)
	var calls int32
	pred := PredicateFunc[bool](func(selenium.WebDriver) (bool, bool, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return false, false, errors.New("unknown error: once")
		}
		return false, false, nil
	})

	_, err := Until[bool](p, pred, 3*testPolling)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Until returned %v, want ErrTimeout once the last attempt did not fault", err)
	}
}

func TestUntilNegativeTimeout(t *testing.T) {
	p, wd := newTestPauser(t)
	pred := PredicateFunc[bool](func(selenium.WebDriver) (bool, bool, error) {
		return false, false, nil
	})

	_, err := Until[bool](p, pred, -time.Second)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Until returned %v, want ErrTimeout", err)
	}
	if n := wd.Waits(); n != 1 {
		t.Errorf("driver waits = %d, want 1", n)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		desc string
		err  *Error
		want string
	}{
		{
			desc: "timeout",
			err:  &Error{Timeout: time.Second, Elapsed: 2 * time.Second},
			want: "pause: condition not met within 1s (waited 2s)",
		},
		{
			desc: "fault",
			err:  &Error{Timeout: time.Second, Elapsed: time.Second, Err: errors.New("boom")},
			want: "pause: condition failed within 1s (waited 1s): boom",
		},
	}
	for _, test := range tests {
		if got := test.err.Error(); got != test.want {
			t.Errorf("%s: Error() = %q, want %q", test.desc, got, test.want)
		}
	}
}
