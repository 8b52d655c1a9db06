package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/middleware/requestid"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveUpstreamCall(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, method+" "+route)
}

func TestClientGetDecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/teachers", r.URL.Path)
		assert.Equal(t, "req-1", r.Header.Get(requestid.HeaderKey))
		_, _ = w.Write([]byte(`[{"id":1,"name":"A"}]`))
	}))
	t.Cleanup(server.Close)

	obs := &recordingObserver{}
	client := New(server.URL, time.Second, obs, nil)

	var out []map[string]interface{}
	ctx := requestid.WithContext(context.Background(), "req-1")
	require.NoError(t, client.Get(ctx, "/user/teachers", &out))
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0]["name"])
	assert.Equal(t, []string{"GET /user/teachers"}, obs.calls)
}

func TestClientPatchSendsJSON(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	obs := &recordingObserver{}
	client := New(server.URL, time.Second, obs, nil)
	require.NoError(t, client.Patch(context.Background(), "/user/distributions/42/status", map[string]string{"status": "closed"}, nil))
	assert.Equal(t, map[string]string{"status": "closed"}, got)
	assert.Equal(t, []string{"PATCH /user/distributions/:id/status"}, obs.calls)
}

func TestClientDecodesRemoteErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"group not found"}`))
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, time.Second, nil, nil)
	err := client.Post(context.Background(), "/user/distributions", map[string]string{}, nil)
	require.Error(t, err)

	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstream.Code, typed.Code)
	assert.Equal(t, http.StatusBadRequest, typed.Status)
	assert.Equal(t, "group not found", Reason(err))
}

func TestClientFoldsServerErrorsIntoBadGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"db down"}`))
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, time.Second, nil, nil)
	err := client.Get(context.Background(), "/user/listthemes", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, appErrors.FromError(err).Status)
	assert.Equal(t, "db down", Reason(err))
	assert.Equal(t, "db down", MessageOr(err, "Ошибка"))
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(url, time.Second, nil, nil)
	err := client.Get(context.Background(), "/user/teachers", nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable))
	assert.Equal(t, "Network Error", Reason(err))
	assert.Equal(t, "Ошибка", MessageOr(err, "Ошибка"))
}

func TestClientHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client := New(server.URL, 0, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Get(ctx, "/user/distributions", nil) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("request was not cancelled")
	}
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/user/update_student/:id", RouteLabel("/user/update_student/17?x=1"))
	assert.Equal(t, "/user/teachers", RouteLabel("/user/teachers"))
}

func TestErrorTextSelection(t *testing.T) {
	onlyMessage := appErrors.Wrap(&RemoteError{StatusCode: 400, MessageText: "bad"}, appErrors.ErrUpstream.Code, 400, "bad")
	onlyError := appErrors.Wrap(&RemoteError{StatusCode: 400, ErrorText: "boom"}, appErrors.ErrUpstream.Code, 400, "boom")
	transport := appErrors.Wrap(context.DeadlineExceeded, appErrors.ErrUpstreamUnavailable.Code, 503, "Network Error")

	assert.Equal(t, "Request failed with status code 400", ErrorTextOr(onlyMessage, ""))
	assert.Equal(t, "fallback", ErrorTextOr(onlyMessage, "fallback"))
	assert.Equal(t, "boom", ErrorTextOr(onlyError, "fallback"))
	assert.Equal(t, "Network Error", ErrorTextOr(transport, "fallback"))

	assert.Equal(t, "bad", MessageText(onlyMessage))
	assert.Equal(t, "Request failed with status code 400", MessageText(onlyError))
	assert.Equal(t, "Network Error", MessageText(transport))
}
