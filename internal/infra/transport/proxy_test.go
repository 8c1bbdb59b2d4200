package transport

import (
	"context"
	"errors"
	"testing"
)

type fakeSwitcher struct {
	host     string
	switches int
}

func (f *fakeSwitcher) SwitchHost(host string) { f.host = host; f.switches++ }
func (f *fakeSwitcher) Host() string           { return f.host }
func (f *fakeSwitcher) HostHeader() string     { return "nspd.gov.ru" }

var errProxyRuleset = errors.New("socks connect failed: connection not allowed by ruleset")

func TestProxyAdaptive_SwitchesOnceAndReplays(t *testing.T) {
	mock := &mockExecutor{outcomes: []mockOutcome{
		{err: errProxyRuleset},
		{resp: &Response{Status: 200, Body: []byte(`{}`)}},
	}}
	sw := &fakeSwitcher{}
	p := NewProxyAdaptive(mock, sw, "10.0.0.1")

	resp, err := p.Execute(context.Background(), Request{Method: "GET", Path: "/api"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != 200 {
		t.Errorf("expected replayed 200, got %d", resp.Status)
	}
	if mock.calls != 2 {
		t.Errorf("expected exactly 2 underlying calls, got %d", mock.calls)
	}
	if sw.switches != 1 || sw.host != "10.0.0.1" {
		t.Errorf("expected one switch to 10.0.0.1, got %d to %q", sw.switches, sw.host)
	}

	// A later independent request must not rebuild again.
	if _, err := p.Execute(context.Background(), Request{Method: "GET", Path: "/api"}); err != nil {
		t.Fatalf("unexpected error on follow-up request: %v", err)
	}
	if sw.switches != 1 {
		t.Errorf("expected no further switches, got %d", sw.switches)
	}
}

func TestProxyAdaptive_SecondOccurrencePropagates(t *testing.T) {
	mock := &mockExecutor{outcomes: []mockOutcome{{err: errProxyRuleset}}}
	sw := &fakeSwitcher{}
	p := NewProxyAdaptive(mock, sw, "10.0.0.1")

	// First request switches but the replay fails the same way.
	_, err := p.Execute(context.Background(), Request{})
	if !errors.Is(err, errProxyRuleset) {
		t.Fatalf("expected proxy error to propagate after switch, got %v", err)
	}
	if mock.calls != 2 {
		t.Errorf("expected 2 calls (original + replay), got %d", mock.calls)
	}
	if sw.switches != 1 {
		t.Errorf("expected exactly one switch, got %d", sw.switches)
	}

	// Already in IP mode: no replay at all.
	_, err = p.Execute(context.Background(), Request{})
	if !errors.Is(err, errProxyRuleset) {
		t.Fatalf("expected proxy error, got %v", err)
	}
	if mock.calls != 3 {
		t.Errorf("expected 3 calls total, got %d", mock.calls)
	}
}

func TestProxyAdaptive_UnrelatedErrorsPassThrough(t *testing.T) {
	plain := &Error{Class: ServerError, Status: 500}
	mock := &mockExecutor{outcomes: []mockOutcome{{err: plain}}}
	sw := &fakeSwitcher{}
	p := NewProxyAdaptive(mock, sw, "")

	_, err := p.Execute(context.Background(), Request{})
	if !errors.Is(err, plain) {
		t.Fatalf("expected error to pass through, got %v", err)
	}
	if sw.switches != 0 {
		t.Errorf("expected no switch, got %d", sw.switches)
	}
}

func TestIsProxyDNSError(t *testing.T) {
	if !IsProxyDNSError(errProxyRuleset) {
		t.Error("ruleset signature not recognized")
	}
	if IsProxyDNSError(errors.New("hello world")) {
		t.Error("unrelated error misrecognized")
	}
	if IsProxyDNSError(nil) {
		t.Error("nil misrecognized")
	}
}
