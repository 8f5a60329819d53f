package usecase

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"medlink-portal/config"
	"medlink-portal/internal/infrastructure/backend"
	"medlink-portal/internal/infrastructure/cache"
	"medlink-portal/internal/session"
	"medlink-portal/pkg/jwt"

	"github.com/sirupsen/logrus"
)

// fakeBackend routes "METHOD /path" to canned handlers and counts hits.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

func newFakeBackend(t *testing.T) (*fakeBackend, *backend.Client) {
	t.Helper()
	fb := &fakeBackend{routes: map[string]http.HandlerFunc{}, hits: map[string]int{}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return fb, backend.NewClient(config.BackendConfig{URL: srv.URL, Timeout: 2 * time.Second}, quietLogger())
}

func (fb *fakeBackend) handle(route string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[route] = h
}

func (fb *fakeBackend) reply(route string, status int, body string) {
	fb.handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

func (fb *fakeBackend) count(route string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[route]
}

func (fb *fakeBackend) total() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	n := 0
	for _, c := range fb.hits {
		n += c
	}
	return n
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	fb.mu.Lock()
	fb.hits[route]++
	h, ok := fb.routes[route]
	fb.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newQuery() *cache.Query {
	return cache.NewQuery(cache.NewMemoryStore(100), quietLogger())
}

func userCtx(sub, role string) context.Context {
	return session.NewContext(context.Background(), &session.Session{
		Token:  "tok-" + sub,
		Claims: &jwt.Claims{Role: role, Email: sub},
	})
}
