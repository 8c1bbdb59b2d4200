// Package cache provides an optional response cache slotted beneath the
// retry layer. The rest of the stack never observes whether a response was
// served from storage.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/gonspd/gonspd/internal/infra/transport"
	"github.com/gonspd/gonspd/internal/metrics"
)

// Storage is a pluggable cache backend.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Statuses worth replaying from cache. 404 is included because several
// portal endpoints use it to mean "no results", which is as cacheable as
// a hit.
var cacheableStatuses = map[int]bool{
	200: true,
	204: true,
	404: true,
	301: true,
	308: true,
}

type entry struct {
	Status int    `json:"status"`
	Code   int    `json:"code,omitempty"`
	Body   []byte `json:"body"`
}

// Executor decorates a transport.Executor with read-through caching.
type Executor struct {
	next  transport.Executor
	store Storage
	ttl   time.Duration
}

// NewExecutor wraps next with the given storage. ttl of zero stores
// entries without expiry (backends may still bound it).
func NewExecutor(next transport.Executor, store Storage, ttl time.Duration) *Executor {
	return &Executor{next: next, store: store, ttl: ttl}
}

// Execute serves an identical previous request from storage when possible,
// falling through to the network otherwise. Storage failures degrade to
// the network path rather than surfacing.
func (e *Executor) Execute(ctx context.Context, req transport.Request) (*transport.Response, error) {
	key := Key(req)
	if raw, ok, err := e.store.Get(ctx, key); err == nil && ok {
		var ent entry
		if err := json.Unmarshal(raw, &ent); err == nil {
			metrics.CacheHits.Inc()
			return replay(ent)
		}
	}
	metrics.CacheMisses.Inc()

	resp, err := e.next.Execute(ctx, req)
	switch {
	case err == nil && cacheableStatuses[resp.Status]:
		e.put(ctx, key, entry{Status: resp.Status, Body: resp.Body})
	case err != nil:
		var te *transport.Error
		if errors.As(err, &te) && cacheableStatuses[te.Status] {
			e.put(ctx, key, entry{Status: te.Status, Code: te.Code, Body: te.Body})
		}
	}
	return resp, err
}

func (e *Executor) put(ctx context.Context, key string, ent entry) {
	raw, err := json.Marshal(ent)
	if err != nil {
		return
	}
	_ = e.store.Set(ctx, key, raw, e.ttl)
}

// replay reconstructs the original outcome, including classified 404s.
func replay(ent entry) (*transport.Response, error) {
	if ent.Status >= 200 && ent.Status < 300 {
		return &transport.Response{Status: ent.Status, Body: ent.Body}, nil
	}
	return nil, &transport.Error{
		Class:  transport.ClientError,
		Status: ent.Status,
		Code:   ent.Code,
		Body:   ent.Body,
	}
}

// Key derives a stable cache key from the request: md5 over method, path,
// sorted query and canonical JSON body.
func Key(req transport.Request) string {
	var sb strings.Builder
	sb.WriteString(req.Method)
	sb.WriteByte(' ')
	sb.WriteString(req.Path)
	if req.Query != nil {
		keys := make([]string, 0, len(req.Query))
		for k := range req.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteByte('&')
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(strings.Join(req.Query[k], ","))
		}
	}
	if req.Body != nil {
		if data, err := json.Marshal(req.Body); err == nil {
			sb.WriteByte(' ')
			sb.Write(data)
		}
	}
	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
