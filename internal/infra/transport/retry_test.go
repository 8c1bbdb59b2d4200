package transport

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockExecutor returns queued outcomes in order, repeating the last one.
type mockExecutor struct {
	outcomes []mockOutcome
	calls    int
}

type mockOutcome struct {
	resp *Response
	err  error
}

func (m *mockExecutor) Execute(_ context.Context, _ Request) (*Response, error) {
	i := m.calls
	if i >= len(m.outcomes) {
		i = len(m.outcomes) - 1
	}
	m.calls++
	out := m.outcomes[i]
	return out.resp, out.err
}

func testConfig(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, Backoff: time.Millisecond}
}

func TestRetrier_TransientExhaustsBudget(t *testing.T) {
	transient := &Error{Class: Transient, Err: errors.New("connection reset")}
	mock := &mockExecutor{outcomes: []mockOutcome{{err: transient}}}
	r := NewRetrier(mock, testConfig(5))

	_, err := r.Execute(context.Background(), Request{Method: "GET", Path: "/api"})
	if mock.calls != 5 {
		t.Errorf("expected exactly 5 calls, got %d", mock.calls)
	}
	// Exhaustion surfaces the last concrete failure, not a synthetic one.
	if !errors.Is(err, transient) {
		t.Errorf("expected last transient error, got %v", err)
	}
}

func TestRetrier_ClientErrorNotRetried(t *testing.T) {
	mock := &mockExecutor{outcomes: []mockOutcome{
		{err: &Error{Class: ClientError, Status: 400}},
	}}
	r := NewRetrier(mock, testConfig(5))

	_, err := r.Execute(context.Background(), Request{Method: "GET", Path: "/api"})
	if mock.calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", mock.calls)
	}
	if StatusOf(err) != 400 {
		t.Errorf("expected status 400, got %d", StatusOf(err))
	}
}

func TestRetrier_RecoversAfterFailures(t *testing.T) {
	tests := []struct {
		name  string
		first *Error
	}{
		{"rate limited", &Error{Class: RateLimited, Status: 429}},
		{"server error", &Error{Class: ServerError, Status: 500}},
		{"disconnect", &Error{Class: Transient, Err: errors.New("unexpected EOF")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockExecutor{outcomes: []mockOutcome{
				{err: tt.first},
				{resp: &Response{Status: 200, Body: []byte(`{}`)}},
			}}
			r := NewRetrier(mock, testConfig(5))

			resp, err := r.Execute(context.Background(), Request{Method: "GET", Path: "/api"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Status != 200 {
				t.Errorf("expected 200, got %d", resp.Status)
			}
			if mock.calls != 2 {
				t.Errorf("expected 2 calls, got %d", mock.calls)
			}
		})
	}
}

func TestRetrier_RegionTooLargePassesThrough(t *testing.T) {
	mock := &mockExecutor{outcomes: []mockOutcome{
		{err: &Error{Class: RegionTooLarge, Status: 500, Code: 400004}},
	}}
	r := NewRetrier(mock, testConfig(5))

	_, err := r.Execute(context.Background(), Request{Method: "POST", Path: "/api"})
	if mock.calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", mock.calls)
	}
	if !IsRegionTooLarge(err) {
		t.Errorf("expected region-too-large, got %v", err)
	}
}

func TestRetrier_AccessBlocked(t *testing.T) {
	blocked := &Error{Class: AccessBlocked, Status: 403}

	mock := &mockExecutor{outcomes: []mockOutcome{{err: blocked}}}
	r := NewRetrier(mock, testConfig(3))
	_, err := r.Execute(context.Background(), Request{})
	if mock.calls != 1 {
		t.Errorf("default policy: expected 1 call, got %d", mock.calls)
	}
	if c, _ := ClassOf(err); c != AccessBlocked {
		t.Errorf("expected AccessBlocked to surface, got %v", err)
	}

	mock = &mockExecutor{outcomes: []mockOutcome{
		{err: blocked},
		{resp: &Response{Status: 200}},
	}}
	r = NewRetrier(mock, RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond, RetryOnBlocked: true})
	if _, err := r.Execute(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error with RetryOnBlocked: %v", err)
	}
	if mock.calls != 2 {
		t.Errorf("RetryOnBlocked: expected 2 calls, got %d", mock.calls)
	}
}

func TestRetrier_CancelledDuringBackoff(t *testing.T) {
	mock := &mockExecutor{outcomes: []mockOutcome{
		{err: &Error{Class: Transient, Err: errors.New("timeout")}},
	}}
	r := NewRetrier(mock, RetryConfig{MaxAttempts: 10, Backoff: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Execute(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", mock.calls)
	}
}
