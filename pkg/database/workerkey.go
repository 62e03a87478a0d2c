package database

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
)

type contextKey int

const contextWorkerKey contextKey = 1

// DefaultWorkerKey is used when a context carries no worker key, such as
// in bootstrap code paths.
const DefaultWorkerKey = "worker-0"

// WorkerKey returns the worker key carried by the context.
func WorkerKey(ctx context.Context) string {
	if key, ok := ctx.Value(contextWorkerKey).(string); ok {
		return key
	}
	return DefaultWorkerKey
}

func WithWorkerKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, contextWorkerKey, key)
}

// WorkerKeyMiddleware tags each request context with one of a fixed set of
// worker keys, round-robin. The pool holds at most one connection per key,
// so workers also bounds the number of database connections.
func WorkerKeyMiddleware(workers int) func(http.Handler) http.Handler {
	if workers < 1 {
		workers = 1
	}

	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := counter.Add(1) - 1
			key := fmt.Sprintf("worker-%d", n%uint64(workers))
			next.ServeHTTP(w, r.WithContext(WithWorkerKey(r.Context(), key)))
		})
	}
}
