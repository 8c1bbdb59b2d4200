// Package transport executes single requests against the geoportal and
// classifies every outcome into a closed failure taxonomy. Retry policy,
// caching and proxy recovery are layered on top as explicit wrappers.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gonspd/gonspd/internal/metrics"
)

// Request is one logical portal request. Body is JSON-marshaled when
// non-nil.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a successful (2xx) portal response.
type Response struct {
	Status int
	Body   []byte
}

// Executor executes one logical request. Implementations must return
// either a 2xx *Response or a classified *Error (context errors pass
// through unwrapped).
type Executor interface {
	Execute(ctx context.Context, req Request) (*Response, error)
}

// TooLargePredicate decides whether a failed response is the portal's
// region-too-large signal. The contract is undocumented upstream and has
// changed between portal versions, so it is pluggable.
type TooLargePredicate func(status, code int, body []byte) bool

// DefaultTooLarge matches the signal observed in production: a 500 whose
// body carries error code 400004.
func DefaultTooLarge(status, code int, _ []byte) bool {
	return status == 500 && code == 400004
}

// Options configures an HTTPExecutor.
type Options struct {
	BaseURL  string // default https://nspd.gov.ru
	Timeout  time.Duration
	ProxyURL string // http, https or socks5 URL
	TooLarge TooLargePredicate
}

const (
	defaultBaseURL = "https://nspd.gov.ru"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0"
)

// HTTPExecutor performs one network round trip per Execute call against a
// single fixed host. The portal chain is signed by a national CA that is
// absent from standard trust stores, so certificate verification is off.
type HTTPExecutor struct {
	mu         sync.RWMutex
	base       *url.URL
	hostHeader string
	client     *http.Client
	tooLarge   TooLargePredicate
}

// NewHTTPExecutor builds an executor for the portal host.
func NewHTTPExecutor(opts Options) (*HTTPExecutor, error) {
	rawURL := opts.BaseURL
	if rawURL == "" {
		rawURL = defaultBaseURL
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	tr := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
	}
	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		tr.Proxy = http.ProxyURL(proxyURL)
	}
	tooLarge := opts.TooLarge
	if tooLarge == nil {
		tooLarge = DefaultTooLarge
	}
	return &HTTPExecutor{
		base:       base,
		hostHeader: base.Hostname(),
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: tr,
		},
		tooLarge: tooLarge,
	}, nil
}

// Execute performs one round trip and classifies the outcome.
func (e *HTTPExecutor) Execute(ctx context.Context, req Request) (*Response, error) {
	e.mu.RLock()
	base := *e.base
	hostHeader := e.hostHeader
	client := e.client
	e.mu.RUnlock()

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, e.fail(&Error{Class: Fatal, Err: fmt.Errorf("marshal request body: %w", err)})
		}
		bodyReader = bytes.NewReader(data)
	}

	u := base
	u.Path = req.Path
	if req.Query != nil {
		u.RawQuery = req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), bodyReader)
	if err != nil {
		return nil, e.fail(&Error{Class: Fatal, Err: fmt.Errorf("create request: %w", err)})
	}
	httpReq.Host = hostHeader
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Referer", "https://"+hostHeader)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		return nil, e.fail(&Error{Class: classifyNetError(err), Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// Mid-stream disconnect: the portal is known to randomly drop
		// responses that succeed on replay.
		return nil, e.fail(&Error{Class: Transient, Err: fmt.Errorf("read response: %w", err)})
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.RequestsTotal.WithLabelValues("ok").Inc()
		return &Response{Status: resp.StatusCode, Body: body}, nil
	}

	code, message := parseErrorBody(body)
	return nil, e.fail(&Error{
		Class:   e.classifyStatus(resp.StatusCode, code, body),
		Status:  resp.StatusCode,
		Code:    code,
		Message: message,
		Body:    body,
	})
}

// SwitchHost repoints the executor at a new host (an IP literal during
// proxy DNS fallback) while keeping the original Host header, and drops
// pooled connections to the old host.
func (e *HTTPExecutor) SwitchHost(host string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if port := e.base.Port(); port != "" {
		e.base.Host = net.JoinHostPort(host, port)
	} else {
		e.base.Host = host
	}
	e.client.CloseIdleConnections()
}

// Host returns the host the executor currently connects to.
func (e *HTTPExecutor) Host() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.base.Hostname()
}

// HostHeader returns the logical portal hostname sent with every request.
func (e *HTTPExecutor) HostHeader() string {
	return e.hostHeader
}

// Close releases pooled connections.
func (e *HTTPExecutor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

func (e *HTTPExecutor) fail(te *Error) *Error {
	metrics.RequestsTotal.WithLabelValues(te.Class.String()).Inc()
	return te
}

func (e *HTTPExecutor) classifyStatus(status, code int, body []byte) FailureClass {
	switch {
	case e.tooLarge(status, code, body):
		return RegionTooLarge
	case status == 429:
		return RateLimited
	case status == 403:
		return AccessBlocked
	case status >= 400 && status < 500:
		return ClientError
	case status >= 500:
		return ServerError
	}
	return Fatal
}

func classifyNetError(err error) FailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return Transient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Transient
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Transient
	}
	s := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection reset",
		"broken pipe",
		"server closed",
		"unexpected eof",
	} {
		if strings.Contains(s, pattern) {
			return Transient
		}
	}
	return Fatal
}

// IsProxyDNSError reports whether the error is the SOCKS proxy signature
// for "cannot resolve this hostname".
func IsProxyDNSError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "connection not allowed by ruleset")
}

func parseErrorBody(body []byte) (code int, message string) {
	var payload struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, ""
	}
	return payload.Code, payload.Message
}
