package transport

import (
	"context"
	"log/slog"
	"net"
	"sync"
)

// HostSwitcher is the slice of HTTPExecutor the proxy adapter needs to
// rebuild the connection against an IP literal.
type HostSwitcher interface {
	SwitchHost(host string)
	Host() string
	HostHeader() string
}

// ProxyAdaptive recovers from SOCKS proxies that refuse to resolve the
// portal hostname. On the first "connection not allowed by ruleset" error
// it repoints the underlying executor at an IP literal and replays the
// in-flight request. The switch happens at most once per client lifetime;
// a second occurrence propagates unchanged.
type ProxyAdaptive struct {
	next     Executor
	switcher HostSwitcher

	// FallbackIP pins the IP used after the switch. When empty the
	// hostname is resolved locally.
	fallbackIP string

	mu       sync.Mutex
	switched bool
}

// NewProxyAdaptive wraps next. switcher is normally the HTTPExecutor at
// the bottom of the stack; fallbackIP may be empty.
func NewProxyAdaptive(next Executor, switcher HostSwitcher, fallbackIP string) *ProxyAdaptive {
	return &ProxyAdaptive{next: next, switcher: switcher, fallbackIP: fallbackIP}
}

// Execute runs the request, performing the one-time IP fallback when the
// proxy cannot resolve the portal hostname.
func (p *ProxyAdaptive) Execute(ctx context.Context, req Request) (*Response, error) {
	resp, err := p.next.Execute(ctx, req)
	if err == nil || !IsProxyDNSError(err) {
		return resp, err
	}

	p.mu.Lock()
	if p.switched {
		p.mu.Unlock()
		return nil, err
	}
	ip := p.fallbackIP
	if ip == "" {
		addrs, lookupErr := net.DefaultResolver.LookupHost(ctx, p.switcher.HostHeader())
		if lookupErr != nil || len(addrs) == 0 {
			p.mu.Unlock()
			slog.Warn("proxy cannot resolve portal hostname and local resolution failed",
				"host", p.switcher.HostHeader(), "error", lookupErr)
			return nil, err
		}
		ip = addrs[0]
	}
	p.switcher.SwitchHost(ip)
	p.switched = true
	p.mu.Unlock()

	slog.Warn("proxy cannot resolve portal hostname, switched to IP and replaying; "+
		"configure a pinned IP to skip the wasted round trip",
		"host", p.switcher.HostHeader(), "ip", ip)
	return p.next.Execute(ctx, req)
}
