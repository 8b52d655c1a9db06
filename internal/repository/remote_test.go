package repository

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
)

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type fakeRemote struct {
	mu     sync.Mutex
	calls  []recordedCall
	routes map[string]func(w http.ResponseWriter)
}

func newFakeRemote(t *testing.T) (*fakeRemote, *apiclient.Client) {
	t.Helper()
	remote := &fakeRemote{routes: map[string]func(w http.ResponseWriter){}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, Path: r.URL.Path}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &call.Body))
		}
		remote.mu.Lock()
		remote.calls = append(remote.calls, call)
		handler, ok := remote.routes[r.Method+" "+r.URL.Path]
		remote.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"no route"}`))
			return
		}
		handler(w)
	}))
	t.Cleanup(server.Close)
	return remote, apiclient.New(server.URL, time.Second, nil, nil)
}

func (f *fakeRemote) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (f *fakeRemote) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}
